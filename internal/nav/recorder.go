package nav

import "github.com/minhdang/planboard/internal/models"

// Target is where navigating an action record should land.
//
// Stale marks a record whose menu no longer exists; the caller shows a
// "this section was removed" message instead of a generic not-found page.
type Target struct {
	Path  string `json:"path"`
	Stale bool   `json:"stale"`
}

// PathForMenu renders the current path for a menu entry.
func PathForMenu(m models.Menu) string {
	return "/" + m.Slug
}

// NavigationTarget resolves an action record's stored menu ID against the
// live directory. Resolution always uses the menu's current slug, never one
// captured when the record was written: two calls straddling a slug rename
// return different paths, which is the point of storing the ID. A deleted
// menu yields the fallback path with Stale set; never an error.
func NavigationTarget(r models.ActionRecord, idx MenuIndex) Target {
	m, ok := idx.Find(r.MenuID)
	if !ok {
		return Target{Path: FallbackPath, Stale: true}
	}
	return Target{Path: PathForMenu(m)}
}
