// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Planboard tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/minhdang/planboard/internal/boardservice"
	"github.com/minhdang/planboard/internal/models"
)

// Server wraps the MCP server with Planboard tools.
type Server struct {
	mcp *server.MCPServer
	svc *boardservice.Service
}

// New creates a new MCP server with all Planboard tools registered.
func New(svc *boardservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Planboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_menus",
		mcp.WithDescription("List all board sections with their current slugs and stable IDs."),
	), s.listMenus)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List the tasks of a board section."),
		mcp.WithString("menu_id", mcp.Required(), mcp.Description("Stable menu ID (from list_menus)")),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Set a task's status. Accepts English and Vietnamese status variants "+
			"(done, hoàn thành, pending, chưa xong, ...)."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithString("status", mcp.Required(), mcp.Description("Status value, e.g. \"done\" or \"pending\"")),
	), s.completeTask)

	s.mcp.AddTool(mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to a task."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Comment text")),
		mcp.WithString("author", mcp.Description("Comment author (defaults to \"mcp\")")),
	), s.addComment)

	s.mcp.AddTool(mcp.NewTool("resolve_path",
		mcp.WithDescription("Resolve a dashboard path (e.g. /giai-doan-1) to a static page or a section."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to resolve")),
	), s.resolvePath)

	s.mcp.AddTool(mcp.NewTool("recent_activity",
		mcp.WithDescription("Return recent activity records, each with the current path of its section."),
		mcp.WithString("menu_id", mcp.Description("Optional menu ID filter")),
	), s.recentActivity)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listMenus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	menus, err := s.svc.ListMenus(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(menus, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	menuID, err := req.RequireString("menu_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tasks, err := s.svc.ListTasks(ctx, menuID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("menu not found: %s", menuID)), nil
	}
	out, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) completeTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawStatus, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := s.svc.SetTaskStatus(ctx, taskID, rawStatus, "mcp")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := "reopened"
	if task.Done {
		state = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", state, task.Title)), nil
}

func (s *Server) addComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := req.RequireString("body")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	author := "mcp"
	if a, aErr := req.RequireString("author"); aErr == nil && a != "" {
		author = a
	}

	comment, err := s.svc.AddComment(ctx, models.Comment{TaskID: taskID, Author: author, Body: body})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("comment added: %s", comment.ID)), nil
}

func (s *Server) resolvePath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	route := s.svc.Resolve(ctx, path)
	out, _ := json.MarshalIndent(route, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) recentActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	menuID := ""
	if m, err := req.RequireString("menu_id"); err == nil {
		menuID = m
	}
	entries, _, err := s.svc.Activity(ctx, 20, 0, menuID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
