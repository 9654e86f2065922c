package hashpkg

import "testing"

func TestWeightCountsTrailingZeroBytes(t *testing.T) {
	var h Hash
	if h.Weight() != Size {
		t.Fatalf("zero hash weight = %d, want %d", h.Weight(), Size)
	}

	h[Size-1] = 1
	if h.Weight() != 0 {
		t.Fatalf("weight = %d, want 0", h.Weight())
	}

	h[Size-1] = 0
	h[Size-2] = 7
	if h.Weight() != 1 {
		t.Fatalf("weight = %d, want 1", h.Weight())
	}
}

func TestNewHashFromSliceRejectsWrongLength(t *testing.T) {
	if _, err := NewHashFromSlice(make([]byte, Size-1)); err == nil {
		t.Fatal("expected error for short slice")
	}
	if _, err := NewHashFromSlice(make([]byte, Size+1)); err == nil {
		t.Fatal("expected error for long slice")
	}
	h, err := NewHashFromSlice(make([]byte, Size))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !h.IsZero() {
		t.Fatal("expected zero hash")
	}
}
