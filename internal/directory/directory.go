// Package directory holds the in-memory menu snapshot that routing and link
// generation read from. It is the single owned copy of "what menus exist
// right now"; there are no package-level globals.
package directory

import (
	"encoding/json"
	"sync"

	"github.com/minhdang/planboard/internal/checksum"
	"github.com/minhdang/planboard/internal/models"
)

// Directory is an atomically replaceable snapshot of menu entries.
//
// Refresh replaces the whole snapshot at once; readers never observe a
// partial update. A refresh that carries the same content as the current
// snapshot is an idempotent no-op: subscribers are not signalled.
type Directory struct {
	mu      sync.RWMutex
	entries []models.Menu
	digest  string

	subMu sync.Mutex
	subs  []chan struct{}
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{}
}

// Refresh atomically replaces the held snapshot. It returns true when the
// snapshot actually changed; duplicate deliveries from the feed return false
// and signal nobody.
func (d *Directory) Refresh(entries []models.Menu) bool {
	dg := snapshotDigest(entries)

	d.mu.Lock()
	if dg == d.digest {
		d.mu.Unlock()
		return false
	}
	d.entries = append([]models.Menu(nil), entries...)
	d.digest = dg
	d.mu.Unlock()

	d.notify()
	return true
}

// Find returns the entry with the given stable menu ID.
func (d *Directory) Find(menuID string) (models.Menu, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, m := range d.entries {
		if m.ID == menuID {
			return m, true
		}
	}
	return models.Menu{}, false
}

// FindBySlug returns the entry whose current slug matches exactly. Slugs are
// stored in canonical form, so comparison is a plain equality check.
func (d *Directory) FindBySlug(slug string) (models.Menu, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, m := range d.entries {
		if m.Slug == slug {
			return m, true
		}
	}
	return models.Menu{}, false
}

// Snapshot returns a copy of the current entries.
func (d *Directory) Snapshot() []models.Menu {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Menu(nil), d.entries...)
}

// Subscribe returns a channel that receives one signal per effective
// refresh. The channel has a buffer of one; a slow consumer coalesces
// signals instead of blocking Refresh.
func (d *Directory) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	d.subMu.Lock()
	d.subs = append(d.subs, ch)
	d.subMu.Unlock()
	return ch
}

func (d *Directory) notify() {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// snapshotDigest hashes the routing-relevant fields of a snapshot so that
// duplicate refreshes can be detected cheaply.
func snapshotDigest(entries []models.Menu) string {
	type key struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
		Name string `json:"name"`
		Icon string `json:"icon"`
		Ord  int    `json:"ord"`
		Kind string `json:"kind"`
		URL  string `json:"url"`
	}
	keys := make([]key, len(entries))
	for i, m := range entries {
		keys[i] = key{ID: m.ID, Slug: m.Slug, Name: m.Name, Icon: m.Icon, Ord: m.Order, Kind: m.Kind, URL: m.URL}
	}
	data, _ := json.Marshal(keys)
	return checksum.Sum(data)
}
