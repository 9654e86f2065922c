package message

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestTransactionBroadcastSizeRange(t *testing.T) {
	cases := []struct {
		length int
		wantOK bool
	}{
		{291, false},
		{292, true},
		{1603, true},
		{1604, true},
		{1605, false},
	}
	for _, c := range cases {
		_, err := TransactionBroadcastFromBytes(make([]byte, c.length))
		ok := err == nil
		if ok != c.wantOK {
			t.Fatalf("length %d: from_bytes ok=%v, want %v (err=%v)", c.length, ok, c.wantOK, err)
		}
	}
}

func TestTransactionBroadcastInvalidLengthReportsLength(t *testing.T) {
	for _, n := range []int{291, 1605} {
		_, err := TransactionBroadcastFromBytes(make([]byte, n))
		var invalid *InvalidPayloadLengthError
		if err == nil {
			t.Fatalf("length %d: expected error", n)
		}
		if ie, ok := err.(*InvalidPayloadLengthError); ok {
			invalid = ie
		} else {
			t.Fatalf("length %d: wrong error type %T", n, err)
		}
		if invalid.Length != n {
			t.Fatalf("length %d: error reports %d", n, invalid.Length)
		}
	}
}

func roundTripFullBytes[T Message](t *testing.T, m T, fromFull func(Header, []byte) (T, error), eq func(a, b T) bool) {
	t.Helper()
	full := IntoFullBytes(m)
	header, err := HeaderFromBytes(full[:HeaderSize])
	if err != nil {
		t.Fatalf("unexpected header parse error: %s", err)
	}
	got, err := fromFull(header, full[HeaderSize:])
	if err != nil {
		t.Fatalf("unexpected from_full_bytes error: %s", err)
	}
	if !eq(got, m) {
		t.Fatalf("round trip mismatch:\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(m))
	}
}

func TestMilestoneRequestRoundTrip(t *testing.T) {
	roundTripFullBytes(t, &MilestoneRequest{Index: 42}, MilestoneRequestFromFullBytes,
		func(a, b *MilestoneRequest) bool { return a.Index == b.Index })
}

func TestHeartbeatRoundTrip(t *testing.T) {
	roundTripFullBytes(t, &Heartbeat{SolidMilestoneIndex: 10, SnapshotMilestoneIndex: 3}, HeartbeatFromFullBytes,
		func(a, b *Heartbeat) bool {
			return a.SolidMilestoneIndex == b.SolidMilestoneIndex && a.SnapshotMilestoneIndex == b.SnapshotMilestoneIndex
		})
}

func TestTransactionRequestRoundTrip(t *testing.T) {
	var h [49]byte
	h[0] = 0xAB
	roundTripFullBytes(t, &TransactionRequest{Hash: h}, TransactionRequestFromFullBytes,
		func(a, b *TransactionRequest) bool { return a.Hash == b.Hash })
}

func TestTransactionBroadcastRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte{7}, 500)
	roundTripFullBytes(t, NewTransactionBroadcast(payload), TransactionBroadcastFromFullBytes,
		func(a, b *TransactionBroadcast) bool { return bytes.Equal(a.Transaction, b.Transaction) })
}

func TestFromFullBytesRejectsLengthMismatch(t *testing.T) {
	header := Header{Type: KindMilestoneRequest, PayloadLength: 99}
	if _, err := MilestoneRequestFromFullBytes(header, make([]byte, 4)); err == nil {
		t.Fatal("expected advertised-length mismatch error")
	}
}

func TestCompressUncompressRoundTrip(t *testing.T) {
	blob := make([]byte, TransactionBroadcastMaxSize)
	for i := range blob {
		blob[i] = byte(i % 7)
	}
	compressed := CompressTransactionBytes(blob)
	restored := UncompressTransactionBytes(compressed)
	if !bytes.Equal(restored, blob) {
		t.Fatal("uncompress(compress(x)) != x")
	}
}

func TestCompressAllZeroSignatureStripsToMinSize(t *testing.T) {
	blob := make([]byte, TransactionBroadcastMaxSize)
	for i := 0; i < signatureRegionStart; i++ {
		blob[i] = 1
	}
	compressed := CompressTransactionBytes(blob)
	if len(compressed) != TransactionBroadcastMinSize {
		t.Fatalf("compressed length = %d, want %d", len(compressed), TransactionBroadcastMinSize)
	}
}
