package repositories

import "testing"

func TestOptionalID(t *testing.T) {
	if got := optionalID(""); got != nil {
		t.Fatalf("empty id must map to NULL, got %q", *got)
	}

	const id = "7c21e8aa-9e6e-4d57-9631-000000000001"
	got := optionalID(id)
	if got == nil {
		t.Fatal("non-empty id must not map to NULL")
	}
	if *got != id {
		t.Fatalf("expected %q got %q", id, *got)
	}
}
