// Package nav implements path resolution for the dashboard: mapping URL
// paths to static pages or menu sections by slug, and re-resolving stored
// menu references to their current path.
package nav

import (
	"regexp"
	"strings"

	"github.com/minhdang/planboard/internal/models"
)

// Static page identifiers.
const (
	PageHome          = "home"
	PageLogin         = "login"
	PageActivity      = "activity"
	PageNotifications = "notifications"
	PageSettings      = "settings"
)

// staticRoutes maps a normalized path segment to its page. Static routes win
// over any menu slug; slug collisions with this set are rejected when the
// menu is written, so resolution never has to arbitrate.
var staticRoutes = map[string]string{
	"":              PageHome,
	"login":         PageLogin,
	"activity":      PageActivity,
	"notifications": PageNotifications,
	"settings":      PageSettings,
}

// FallbackPath is where unresolvable navigation lands.
const FallbackPath = "/"

// Route kinds.
const (
	RouteStatic   = "static"
	RouteDynamic  = "dynamic"
	RouteNotFound = "not-found"
)

// Route is the outcome of resolving one path. It is ephemeral: recomputed on
// every navigation and never cached across a directory refresh. Dynamic
// routes carry the stable menu ID and display name, never a slug.
type Route struct {
	Kind   string `json:"kind"`
	PageID string `json:"page_id,omitempty"`
	MenuID string `json:"menu_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// MenuIndex is the read surface the resolver needs from the menu directory.
type MenuIndex interface {
	Find(menuID string) (models.Menu, bool)
	FindBySlug(slug string) (models.Menu, bool)
}

// NormalizePath reduces a raw request path to its canonical segment: outer
// whitespace and slashes stripped, lowercased. "/GiaiDoan1/" and "giaidoan1"
// normalize identically. This is the single normalization rule for the whole
// system; slugs are stored already canonical.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, "/")
	return strings.ToLower(p)
}

// Resolve maps a path to exactly one outcome. It never returns an error;
// "not found" is a first-class outcome and the caller decides the policy
// (the dashboard redirects home).
func Resolve(path string, idx MenuIndex) Route {
	seg := NormalizePath(path)

	if pageID, ok := staticRoutes[seg]; ok {
		return Route{Kind: RouteStatic, PageID: pageID}
	}

	if m, ok := idx.FindBySlug(seg); ok && m.Kind == models.KindTaskList {
		// External-link menus navigate away immediately; they are never
		// route targets even when the slug matches.
		return Route{Kind: RouteDynamic, MenuID: m.ID, Name: m.Name}
	}

	return Route{Kind: RouteNotFound}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is in canonical slug form: lowercase
// alphanumerics with single hyphen separators.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ReservedSlug reports whether s collides with a static route name. Such
// slugs are rejected at menu create/update time.
func ReservedSlug(s string) bool {
	_, ok := staticRoutes[NormalizePath(s)]
	return ok
}
