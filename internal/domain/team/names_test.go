package team

import "testing"

func TestName(t *testing.T) {
	t.Parallel()

	if got := Name("edm"); got != "Edmonton Oilers" {
		t.Fatalf("Name(edm) = %q", got)
	}
	if got := Name("XXX"); got != "XXX" {
		t.Fatalf("unknown code should fall back to code, got %q", got)
	}
	if got := Name(""); got != "Unknown" {
		t.Fatalf("empty code should fall back to Unknown, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" tor "); got != "TOR" {
		t.Fatalf("NormalizeCode = %q", got)
	}
}
