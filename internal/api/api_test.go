package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	authpkg "github.com/minhdang/planboard/internal/auth"
	"github.com/minhdang/planboard/internal/boardservice"
	"github.com/minhdang/planboard/internal/directory"
	"github.com/minhdang/planboard/internal/models"
	"github.com/minhdang/planboard/internal/notify"
	"github.com/minhdang/planboard/internal/store"
)

// testEnv sets up a temp SQLite DB, service, and router. An empty token
// means disabled mode; a non-empty token means static-token mode.
func testEnv(t *testing.T, token string) (*boardservice.Service, http.Handler) {
	t.Helper()
	mode := authpkg.ModeDisabled
	if token != "" {
		mode = authpkg.ModeToken
	}
	svc, router, _ := testEnvFull(t, mode, token)
	return svc, router
}

func testEnvFull(t *testing.T, mode, token string) (*boardservice.Service, http.Handler, *store.DB) {
	t.Helper()

	dbFile, err := os.CreateTemp("", "planboard-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := boardservice.NewService(db, directory.New(), nil, notify.NewCenter())

	var sessions *authpkg.Service
	if mode == authpkg.ModeSession {
		sessions = authpkg.NewService(db, time.Hour)
	}
	router := NewRouter(svc, sessions, mode, token, nil)
	return svc, router, db
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createMenu(t *testing.T, router http.Handler, slug, name string) models.Menu {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/menus", map[string]any{
		"slug": slug, "name": name, "kind": models.KindTaskList,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu %s = %d, body = %s", slug, w.Code, w.Body.String())
	}
	var m models.Menu
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	return m
}

func createTask(t *testing.T, router http.Handler, menuID, title string) models.Task {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/menus/"+menuID+"/tasks", map[string]string{"title": title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task = %d, body = %s", w.Code, w.Body.String())
	}
	var task models.Task
	_ = json.Unmarshal(w.Body.Bytes(), &task)
	return task
}

func TestCreateAndListMenus(t *testing.T) {
	_, router := testEnv(t, "")

	createMenu(t, router, "giai-doan-1", "Giai đoạn 1")
	createMenu(t, router, "backlog", "Backlog")

	w := doJSON(t, router, http.MethodGet, "/menus", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp MenuListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Menus) != 2 {
		t.Errorf("menus = %d, want 2", len(resp.Menus))
	}
}

func TestCreateMenuValidation(t *testing.T) {
	_, router := testEnv(t, "")

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bad slug chars", map[string]any{"slug": "no spaces", "name": "x", "kind": models.KindTaskList}, http.StatusBadRequest},
		{"reserved slug", map[string]any{"slug": "activity", "name": "x", "kind": models.KindTaskList}, http.StatusBadRequest},
		{"missing name", map[string]any{"slug": "ok", "kind": models.KindTaskList}, http.StatusBadRequest},
		{"bad kind", map[string]any{"slug": "ok", "name": "x", "kind": "folder"}, http.StatusBadRequest},
		{"external link without url", map[string]any{"slug": "docs", "name": "Docs", "kind": models.KindExternalLink}, http.StatusBadRequest},
		{"mixed case slug accepted", map[string]any{"slug": "/GiaiDoan2/", "name": "x", "kind": models.KindTaskList}, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/menus", tc.body)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tc.want, w.Body.String())
			}
		})
	}

	// The mixed-case slug was stored canonical.
	w := doJSON(t, router, http.MethodGet, "/resolve?path=giaidoan2", nil)
	var route struct {
		Kind string `json:"kind"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &route)
	if route.Kind != "dynamic" {
		t.Errorf("kind = %q, want dynamic", route.Kind)
	}
}

func TestDuplicateSlugConflict(t *testing.T) {
	_, router := testEnv(t, "")
	createMenu(t, router, "phase-1", "Phase 1")

	w := doJSON(t, router, http.MethodPost, "/menus", map[string]any{
		"slug": "phase-1", "name": "Other", "kind": models.KindTaskList,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	_, router := testEnv(t, "")
	menu := createMenu(t, router, "phase-1", "Phase 1")
	task := createTask(t, router, menu.ID, "viết báo cáo")

	// Complete it using a Vietnamese status variant.
	w := doJSON(t, router, http.MethodPost, "/tasks/"+task.ID+"/status", map[string]string{"status": "hoàn thành"})
	if w.Code != http.StatusOK {
		t.Fatalf("status toggle = %d, body = %s", w.Code, w.Body.String())
	}
	var done models.Task
	_ = json.Unmarshal(w.Body.Bytes(), &done)
	if !done.Done {
		t.Error("task not done after 'hoàn thành'")
	}

	// Reopen with an English variant.
	w = doJSON(t, router, http.MethodPost, "/tasks/"+task.ID+"/status", map[string]string{"status": "pending"})
	if w.Code != http.StatusOK {
		t.Fatalf("reopen = %d", w.Code)
	}

	// Unknown variants are rejected, not guessed.
	w = doJSON(t, router, http.MethodPost, "/tasks/"+task.ID+"/status", map[string]string{"status": "maybe"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/tasks/"+task.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/tasks/"+task.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d", w.Code)
	}
}

func TestComments(t *testing.T) {
	_, router := testEnv(t, "")
	menu := createMenu(t, router, "phase-1", "Phase 1")
	task := createTask(t, router, menu.ID, "task")

	w := doJSON(t, router, http.MethodPost, "/tasks/"+task.ID+"/comments", map[string]string{
		"author": "an", "body": "đã xong phần đầu",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add comment = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/tasks/"+task.ID+"/comments", nil)
	var resp struct {
		Comments []models.Comment `json:"comments"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Comments) != 1 || resp.Comments[0].Author != "an" {
		t.Errorf("comments = %+v", resp.Comments)
	}

	// Commenting on a missing task is a 404.
	w = doJSON(t, router, http.MethodPost, "/tasks/nope/comments", map[string]string{"body": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("comment on missing task = %d", w.Code)
	}
}

// The activity log references menus by ID, so entries follow a slug rename
// and survive menu deletion.
func TestActivityFollowsSlugRename(t *testing.T) {
	_, router := testEnv(t, "")
	menu := createMenu(t, router, "giaidoan1", "Giai đoạn 1")
	task := createTask(t, router, menu.ID, "task")
	doJSON(t, router, http.MethodPost, "/tasks/"+task.ID+"/status", map[string]string{"status": "done"})

	w := doJSON(t, router, http.MethodGet, "/activity", nil)
	var before ActivityResponse
	_ = json.Unmarshal(w.Body.Bytes(), &before)
	if before.Total != 3 {
		t.Fatalf("total = %d, want 3", before.Total)
	}
	if before.Activity[0].Path != "/giaidoan1" {
		t.Errorf("path before rename = %q", before.Activity[0].Path)
	}

	w = doJSON(t, router, http.MethodPut, "/menus/"+menu.ID, map[string]any{
		"slug": "giai-doan-1", "name": "Giai đoạn 1", "kind": models.KindTaskList,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rename = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/activity", nil)
	var after ActivityResponse
	_ = json.Unmarshal(w.Body.Bytes(), &after)
	for _, item := range after.Activity {
		if item.Kind == models.ActionMenuUpdated {
			continue
		}
		if item.Path != "/giai-doan-1" {
			t.Errorf("%s path = %q, want /giai-doan-1", item.Kind, item.Path)
		}
		if item.Stale {
			t.Errorf("%s flagged stale", item.Kind)
		}
	}
}

func TestActivityStaleAfterMenuDelete(t *testing.T) {
	_, router := testEnv(t, "")
	menu := createMenu(t, router, "phase-1", "Phase 1")
	createTask(t, router, menu.ID, "task")

	w := doJSON(t, router, http.MethodDelete, "/menus/"+menu.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/activity?menu_id="+menu.ID, nil)
	var resp ActivityResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total == 0 {
		t.Fatal("activity vanished with the menu")
	}
	for _, item := range resp.Activity {
		if item.Path != "/" || !item.Stale {
			t.Errorf("%s path = %q stale = %v, want / and stale", item.Kind, item.Path, item.Stale)
		}
	}
}

func TestNavigateEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	menu := createMenu(t, router, "phase-1", "Phase 1")

	w := doJSON(t, router, http.MethodGet, "/activity", nil)
	var resp ActivityResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	recordID := resp.Activity[0].ID

	w = doJSON(t, router, http.MethodPut, "/menus/"+menu.ID, map[string]any{
		"slug": "phase-one", "name": "Phase 1", "kind": models.KindTaskList,
	})
	if w.Code != http.StatusOK {
		t.Fatal(w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/navigate/"+recordID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("navigate = %d", w.Code)
	}
	var target struct {
		Path  string `json:"path"`
		Stale bool   `json:"stale"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &target)
	if target.Path != "/phase-one" || target.Stale {
		t.Errorf("target = %+v", target)
	}

	w = doJSON(t, router, http.MethodGet, "/navigate/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("navigate missing = %d", w.Code)
	}
}

func TestResolveEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	createMenu(t, router, "phase-1", "Phase 1")

	cases := []struct {
		path string
		kind string
	}{
		{"/", "static"},
		{"/activity", "static"},
		{"/phase-1", "dynamic"},
		{"/PHASE-1/", "dynamic"},
		{"/no-such", "not-found"},
	}
	for _, tc := range cases {
		w := doJSON(t, router, http.MethodGet, "/resolve?path="+tc.path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("resolve %s = %d", tc.path, w.Code)
		}
		var route struct {
			Kind string `json:"kind"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &route)
		if route.Kind != tc.kind {
			t.Errorf("resolve %s kind = %q, want %q", tc.path, route.Kind, tc.kind)
		}
	}
}

func TestNotificationsFlow(t *testing.T) {
	_, router := testEnv(t, "")
	createMenu(t, router, "phase-1", "Phase 1")

	w := doJSON(t, router, http.MethodGet, "/notifications", nil)
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(resp.Notifications))
	}

	id := resp.Notifications[0].ID
	w = doJSON(t, router, http.MethodPost, "/notifications/"+id+"/read", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("mark read = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/notifications/nope/read", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("mark read missing = %d", w.Code)
	}
}

func TestTokenAuth(t *testing.T) {
	_, router := testEnv(t, "secret-token")

	req := httptest.NewRequest(http.MethodGet, "/menus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/menus", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/menus", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestSessionAuthLoginFlow(t *testing.T) {
	_, router, db := testEnvFull(t, authpkg.ModeSession, "")

	hash, err := authpkg.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateAccount("admin", hash); err != nil {
		t.Fatal(err)
	}

	// Protected routes reject anonymous requests.
	w := doJSON(t, router, http.MethodGet, "/menus", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d, want 401", w.Code)
	}

	// Bad credentials.
	w = doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", w.Code)
	}

	// Good credentials yield a token that opens the protected routes.
	w = doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d, body = %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &login)
	if login.Token == "" || login.Username != "admin" {
		t.Fatalf("login response = %+v", login)
	}

	req := httptest.NewRequest(http.MethodGet, "/menus", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with session token = %d, want 200", rec.Code)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/menus", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
