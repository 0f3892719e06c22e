package cache

import "testing"

func TestBuildKeyWithoutParams(t *testing.T) {
	got := BuildKey("owners", "findAll", nil)
	if got != "owners:findAll" {
		t.Errorf("expected owners:findAll, got %q", got)
	}
}

func TestBuildKeySortsParams(t *testing.T) {
	got := BuildKey("financial_records", "monthly_summary", map[string]any{
		"year":  2026,
		"month": 3,
	})
	want := "financial_records:monthly_summary:month=3&year=2026"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBuildKeyOrderIndependence(t *testing.T) {
	params := map[string]any{"a": 1, "b": "two", "c": 3.5}
	first := BuildKey("e", "op", params)
	for i := 0; i < 50; i++ {
		if got := BuildKey("e", "op", params); got != first {
			t.Fatalf("key changed between calls: %q vs %q", first, got)
		}
	}
}

func TestBuildKeyEmptyParamsSameAsNil(t *testing.T) {
	if BuildKey("e", "op", map[string]any{}) != BuildKey("e", "op", nil) {
		t.Error("empty params should produce the same key as nil params")
	}
}
