package util

// -----------------------------------------------------------------------------

// SafeZeroMem zeros the given memory.
func SafeZeroMem(v []byte) {
	vLen := len(v)
	if vLen > 0 {
		v[0] = 0
		for ofs := 1; ofs < vLen; ofs *= 2 {
			copy(v[ofs:], v[:ofs])
		}
	}
}

// SafeZeroWords zeros a slice of cipher words, such as a round key schedule.
func SafeZeroWords(v []uint64) {
	for idx := range v {
		v[idx] = 0
	}
}

// CloneBytes returns a private copy of v. A nil input yields nil.
func CloneBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	c := make([]byte, len(v))
	copy(c, v)
	return c
}
