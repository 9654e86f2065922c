package message

// SignatureFragmentPackedSize is the T5B1-packed byte length of the
// transaction's trailing signature-fragment field, the region whose
// trailing zero bytes the wire compression strips.
const SignatureFragmentPackedSize = 1313 // ceil(6561 trits / 5)

// signatureRegionStart is the byte offset, within the 1604-byte
// uncompressed transaction, at which the signature-fragment field begins.
const signatureRegionStart = TransactionBroadcastMaxSize - SignatureFragmentPackedSize

// CompressTransactionBytes strips trailing all-zero bytes from the
// uncompressed transaction's signature-fragment region, always
// keeping at least one byte of that region so the boundary between
// the non-signature fields and the signature region stays unambiguous.
func CompressTransactionBytes(blob []byte) []byte {
	end := len(blob)
	minEnd := signatureRegionStart + 1
	for end > minEnd && blob[end-1] == 0 {
		end--
	}
	out := make([]byte, end)
	copy(out, blob[:end])
	return out
}

// UncompressTransactionBytes pads blob back out to the fixed 1604-byte
// uncompressed transaction by appending zero bytes at the end, the
// inverse of CompressTransactionBytes.
func UncompressTransactionBytes(blob []byte) []byte {
	out := make([]byte, TransactionBroadcastMaxSize)
	copy(out, blob)
	return out
}
