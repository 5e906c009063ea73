package padding

// -----------------------------------------------------------------------------

// ANSIX923 pads with n-1 zero bytes followed by a single byte holding n.
// The reserved bytes must be zero on removal.
var ANSIX923 Padding = ansiX923{}

type ansiX923 struct{}

// -----------------------------------------------------------------------------

func (ansiX923) Name() string {
	return "ansi-x923"
}

func (ansiX923) String() string {
	return "ANSI X9.23"
}

func (ansiX923) Pad(plaintext []byte, blockLen int) []byte {
	// The buffer is freshly allocated so the reserved bytes are already zero.
	out, n := padBuffer(plaintext, blockLen)
	out[len(out)-1] = byte(n)
	return out
}

func (ansiX923) Unpad(padded []byte, blockLen int) ([]byte, error) {
	n, err := padCount(padded, blockLen)
	if err != nil {
		return nil, err
	}

	l := len(padded)
	for idx := l - n; idx < l-1; idx++ {
		if padded[idx] != 0 {
			return nil, ErrWrongPadding
		}
	}

	// Done.
	return padded[:l-n], nil
}
