package padding

// -----------------------------------------------------------------------------

// PKCS7 pads with n bytes of value n (RFC 5652, section 6.3).
var PKCS7 Padding = pkcs7{}

type pkcs7 struct{}

// -----------------------------------------------------------------------------

func (pkcs7) Name() string {
	return "pkcs7"
}

func (pkcs7) String() string {
	return "PKCS7"
}

func (pkcs7) Pad(plaintext []byte, blockLen int) []byte {
	out, n := padBuffer(plaintext, blockLen)
	for idx := len(plaintext); idx < len(out); idx++ {
		out[idx] = byte(n)
	}
	return out
}

func (pkcs7) Unpad(padded []byte, blockLen int) ([]byte, error) {
	n, err := padCount(padded, blockLen)
	if err != nil {
		return nil, err
	}

	l := len(padded)
	v := padded[l-1]
	for idx := l - n; idx < l-1; idx++ {
		if padded[idx] != v {
			return nil, ErrWrongPadding
		}
	}

	// Done.
	return padded[:l-n], nil
}
