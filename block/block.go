// Package block provides the fixed-width value shared by block ciphers and
// their modes of operation.
package block

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------

var (
	ErrInvalidWidth   = errors.New("block: width must be positive")
	ErrLengthMismatch = errors.New("block: data length does not match block width")
)

// -----------------------------------------------------------------------------

// Block is an immutable, fixed-width byte container. The zero value is an
// empty block of width 0.
type Block struct {
	b []byte
}

// -----------------------------------------------------------------------------

// New creates a block of the given width from exactly width bytes. The data is
// copied.
func New(width int, data []byte) (Block, error) {
	if width <= 0 {
		return Block{}, ErrInvalidWidth
	}
	if len(data) != width {
		return Block{}, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(data), width)
	}
	b := make([]byte, width)
	copy(b, data)
	return Block{b: b}, nil
}

// Zero returns a block of the given width filled with zero bytes.
func Zero(width int) Block {
	if width <= 0 {
		panic("block: width must be positive")
	}
	return Block{b: make([]byte, width)}
}

// Len returns the block width in bytes.
func (b Block) Len() int {
	return len(b.b)
}

// Bytes returns a copy of the block contents.
func (b Block) Bytes() []byte {
	c := make([]byte, len(b.b))
	copy(c, b.b)
	return c
}

// Equal reports whether both blocks have the same width and contents.
func (b Block) Equal(other Block) bool {
	return bytes.Equal(b.b, other.b)
}

// Xor returns b XOR other. Both blocks must have the same width.
func (b Block) Xor(other Block) Block {
	if len(b.b) != len(other.b) {
		panic(fmt.Sprintf("block: xor of mismatched widths %d and %d", len(b.b), len(other.b)))
	}
	out := make([]byte, len(b.b))
	subtle.XORBytes(out, b.b, other.b)
	return Block{b: out}
}

// String renders the block as lowercase hex.
func (b Block) String() string {
	return fmt.Sprintf("%x", b.b)
}

// XorBytes sets dst[i] = a[i] ^ b[i] for every i of the common length. All
// three slices must be at least as long as a.
func XorBytes(dst, a, b []byte) {
	if len(b) < len(a) || len(dst) < len(a) {
		panic("block: xor buffers too short")
	}
	subtle.XORBytes(dst, a, b)
}
