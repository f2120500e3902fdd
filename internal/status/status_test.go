package status

import "testing"

func TestNormalizeDoneVariants(t *testing.T) {
	for _, raw := range []string{
		"done", "Done", "DONE", "completed", "xong", "hoàn thành", "hoan thanh",
		"Hoàn Thành", "đã xong", "  done  ", "true", "1",
	} {
		done, ok := Normalize(raw)
		if !ok {
			t.Errorf("Normalize(%q) not recognized", raw)
			continue
		}
		if !done {
			t.Errorf("Normalize(%q) = pending, want done", raw)
		}
	}
}

func TestNormalizePendingVariants(t *testing.T) {
	for _, raw := range []string{
		"pending", "open", "todo", "chưa xong", "chua xong", "đang làm",
		"In Progress", "false", "0",
	} {
		done, ok := Normalize(raw)
		if !ok {
			t.Errorf("Normalize(%q) not recognized", raw)
			continue
		}
		if done {
			t.Errorf("Normalize(%q) = done, want pending", raw)
		}
	}
}

// Unknown variants are rejected, never guessed.
func TestNormalizeUnknown(t *testing.T) {
	for _, raw := range []string{"", "   ", "maybe", "finished?", "done-ish", "2"} {
		if _, ok := Normalize(raw); ok {
			t.Errorf("Normalize(%q) should be rejected", raw)
		}
	}
}
