package padding_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mxmauro/speckcbc/crypto/padding"
)

// FuzzRoundTrip checks that every scheme restores what it padded.
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("Hello, World!"), uint8(16))
	f.Add([]byte{}, uint8(8))
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7}, uint8(8))
	f.Add(make([]byte, 300), uint8(255))

	f.Fuzz(func(t *testing.T, data []byte, blockLen uint8) {
		if blockLen == 0 {
			return
		}
		for _, p := range allPaddings {
			padded := p.Pad(data, int(blockLen))
			got, err := p.Unpad(padded, int(blockLen))
			if err != nil {
				t.Fatalf("%s: %v", p.Name(), err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("%s: round-trip failed for data len %d", p.Name(), len(data))
			}
		}
	})
}

// FuzzUnpad feeds arbitrary buffers to Unpad; it must never panic and any
// accepted result must be a strict prefix of the input.
func FuzzUnpad(f *testing.F) {
	f.Add([]byte{0xAA, 0xCC, 0xEE, 0xBB, 0x13, 0x00, 0x00, 0x03}, uint8(8))
	f.Add([]byte{0x00}, uint8(1))
	f.Add([]byte{0xFF, 0xFF}, uint8(2))

	f.Fuzz(func(t *testing.T, data []byte, blockLen uint8) {
		for _, p := range allPaddings {
			got, err := p.Unpad(data, int(blockLen))
			if err != nil {
				if !padding.IsPaddingError(err) && !errors.Is(err, padding.ErrInvalidBlockLength) {
					t.Fatalf("%s: unexpected error %v", p.Name(), err)
				}
				continue
			}
			if len(got) >= len(data) || !bytes.Equal(got, data[:len(got)]) {
				t.Fatalf("%s: accepted output is not a strict prefix", p.Name())
			}
		}
	})
}
