package security

// SecureCompare reports whether a and b hold the same bytes. Once the lengths
// match, every byte pair is visited regardless of earlier mismatches so the
// running time does not reveal the position of the first difference. Length
// is not secret and returns early.
func SecureCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var acc byte
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}
