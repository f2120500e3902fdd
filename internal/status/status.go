// Package status normalizes free-form task status strings into a boolean
// done flag. Normalization happens exactly once, at the write boundary;
// everything downstream sees only the flag.
package status

import "strings"

// Variants accepted as "done". The board's original data mixes Vietnamese
// and English labels, with and without diacritics.
var doneVariants = map[string]struct{}{
	"done":       {},
	"completed":  {},
	"complete":   {},
	"finished":   {},
	"xong":       {},
	"đã xong":    {},
	"da xong":    {},
	"hoàn thành": {},
	"hoan thanh": {},
	"hoàn tất":   {},
	"hoan tat":   {},
	"true":       {},
	"1":          {},
}

// Variants accepted as "not done".
var pendingVariants = map[string]struct{}{
	"pending":     {},
	"open":        {},
	"todo":        {},
	"in progress": {},
	"doing":       {},
	"chưa xong":   {},
	"chua xong":   {},
	"đang làm":    {},
	"dang lam":    {},
	"chưa hoàn thành": {},
	"chua hoan thanh": {},
	"false": {},
	"0":     {},
}

// Normalize maps a raw status string to a done flag. ok is false when the
// input matches no known variant; callers must reject such input rather
// than guess.
func Normalize(raw string) (done, ok bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return false, false
	}
	if _, hit := doneVariants[key]; hit {
		return true, true
	}
	if _, hit := pendingVariants[key]; hit {
		return false, true
	}
	return false, false
}
