package ternary

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	trits := TritBuf{1, -1, 0, 1, 1, -1, 0, 0, 1, -1, 1}
	packed := PackT5B1(trits)

	unpacked, err := UnpackT5B1(packed, len(trits))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for i := range trits {
		if unpacked[i] != trits[i] {
			t.Fatalf("trit %d: got %d, want %d", i, unpacked[i], trits[i])
		}
	}
}

func TestUnpackT5B1RejectsShortBuffer(t *testing.T) {
	if _, err := UnpackT5B1([]byte{0}, 10); err == nil {
		t.Fatal("expected error for too-short buffer")
	}
}

func TestUnpackT5B1RejectsOutOfRangeByte(t *testing.T) {
	// 0x7F decodes to 127, past the +/-121 a balanced trit group can reach.
	if _, err := UnpackT5B1([]byte{0x7F}, 5); err == nil {
		t.Fatal("expected error for byte outside the balanced range")
	}
}

func TestPackZeroTritsIsZeroBytes(t *testing.T) {
	packed := PackT5B1(NewTritBuf(10))
	for i, b := range packed {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 12345, -98765, 3486784401} {
		trits := Int64ToTrits(v, 27)
		got := TritsToInt64(trits)
		if got != v {
			t.Fatalf("round trip of %d produced %d", v, got)
		}
	}
}

func TestPackZerosRoundTrip(t *testing.T) {
	trits := NewTritBuf(8019)
	packed := PackT5B1(trits)
	if len(packed) != 1604 {
		t.Fatalf("packed length = %d, want 1604", len(packed))
	}
	unpacked, err := UnpackT5B1(packed, 8019)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for i, tr := range unpacked {
		if tr != 0 {
			t.Fatalf("trit %d = %d, want 0", i, tr)
		}
	}
}
