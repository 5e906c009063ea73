// Package speck implements the Speck family of lightweight ARX block ciphers.
//
// Words are stored little-endian. A block holds the second round word first,
// followed by the first one, and a key holds k0 followed by l0, l1, and so on,
// which is the byte layout of the Speck implementation guide.
package speck

import (
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/mxmauro/speckcbc/block"
	"github.com/mxmauro/speckcbc/util"
)

// -----------------------------------------------------------------------------

// Cipher is a Speck instance keyed with a precomputed round key schedule. It
// is read-only after construction and safe for concurrent use.
type Cipher struct {
	v         Variant
	n         uint
	mask      uint64
	wordSize  int
	roundKeys []uint64
}

var _ cipher.Block = (*Cipher)(nil)

var ErrInvalidKeySize = errors.New("speck: invalid key size")

// -----------------------------------------------------------------------------

// NewCipher creates a Speck128/128 cipher from a 16-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	return NewCipherWithVariant(Default, key)
}

// NewCipherWithVariant creates a cipher for the given parameter set. The key
// must be exactly v.KeySize() bytes long.
func NewCipherWithVariant(v Variant, key []byte) (*Cipher, error) {
	err := v.Validate()
	if err != nil {
		return nil, err
	}
	if len(key) != v.KeySize() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidKeySize, v, v.KeySize(), len(key))
	}

	n := uint(v.WordBits())
	c := &Cipher{
		v:         v,
		n:         n,
		mask:      ^uint64(0) >> (64 - n),
		wordSize:  v.WordBits() / 8,
		roundKeys: make([]uint64, v.Rounds),
	}
	c.expandKey(key)

	// Done.
	return c, nil
}

// Variant returns the parameter set of the cipher.
func (c *Cipher) Variant() Variant {
	return c.v
}

// BlockSize returns the block size in bytes.
func (c *Cipher) BlockSize() int {
	return 2 * c.wordSize
}

// RoundKeys returns a copy of the round key schedule, one word per round.
func (c *Cipher) RoundKeys() []uint64 {
	rk := make([]uint64, len(c.roundKeys))
	copy(rk, c.roundKeys)
	return rk
}

// Zeroize wipes the round key schedule. The cipher must not be used afterwards.
func (c *Cipher) Zeroize() {
	util.SafeZeroWords(c.roundKeys)
}

// Encrypt encrypts the first block of src into dst. Dst and src may overlap
// entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	bs := c.BlockSize()
	if len(src) < bs {
		panic("speck: input not full block")
	}
	if len(dst) < bs {
		panic("speck: output not full block")
	}

	y := c.load(src[:c.wordSize])
	x := c.load(src[c.wordSize:bs])
	for _, k := range c.roundKeys {
		c.round(&x, &y, k)
	}
	c.store(dst[:c.wordSize], y)
	c.store(dst[c.wordSize:bs], x)
}

// Decrypt decrypts the first block of src into dst. Dst and src may overlap
// entirely.
func (c *Cipher) Decrypt(dst, src []byte) {
	bs := c.BlockSize()
	if len(src) < bs {
		panic("speck: input not full block")
	}
	if len(dst) < bs {
		panic("speck: output not full block")
	}

	y := c.load(src[:c.wordSize])
	x := c.load(src[c.wordSize:bs])
	for idx := len(c.roundKeys) - 1; idx >= 0; idx-- {
		c.invRound(&x, &y, c.roundKeys[idx])
	}
	c.store(dst[:c.wordSize], y)
	c.store(dst[c.wordSize:bs], x)
}

// EncryptBlock encrypts a single block. It panics if the block width differs
// from the cipher block size.
func (c *Cipher) EncryptBlock(b block.Block) block.Block {
	return c.transform(b, c.Encrypt)
}

// DecryptBlock decrypts a single block. It panics if the block width differs
// from the cipher block size.
func (c *Cipher) DecryptBlock(b block.Block) block.Block {
	return c.transform(b, c.Decrypt)
}

// -----------------------------------------------------------------------------

func (c *Cipher) transform(b block.Block, fn func(dst, src []byte)) block.Block {
	if b.Len() != c.BlockSize() {
		panic(fmt.Sprintf("speck: block width %d does not match %s", b.Len(), c.v))
	}
	buf := b.Bytes()
	fn(buf, buf)
	out, _ := block.New(len(buf), buf)
	return out
}

// expandKey derives one round key per round. The generator is the round
// function itself, fed with the round index in place of a round key.
func (c *Cipher) expandKey(key []byte) {
	m := c.v.KeyWords()
	l := make([]uint64, m-1)
	defer util.SafeZeroWords(l)

	k := c.load(key[:c.wordSize])
	for idx := range l {
		ofs := (idx + 1) * c.wordSize
		l[idx] = c.load(key[ofs : ofs+c.wordSize])
	}

	for idx := 0; idx < len(c.roundKeys); idx++ {
		c.roundKeys[idx] = k
		if idx == len(c.roundKeys)-1 {
			break
		}
		slot := idx % (m - 1)
		c.round(&l[slot], &k, uint64(idx))
	}
}

func (c *Cipher) round(x, y *uint64, k uint64) {
	*x = ((c.rotr(*x, c.v.Alpha) + *y) & c.mask) ^ k
	*y = c.rotl(*y, c.v.Beta) ^ *x
}

func (c *Cipher) invRound(x, y *uint64, k uint64) {
	*y = c.rotr(*y^*x, c.v.Beta)
	*x = c.rotl(((*x^k)-*y)&c.mask, c.v.Alpha)
}

func (c *Cipher) rotr(w uint64, r uint) uint64 {
	return ((w >> r) | (w << (c.n - r))) & c.mask
}

func (c *Cipher) rotl(w uint64, r uint) uint64 {
	return ((w << r) | (w >> (c.n - r))) & c.mask
}

func (c *Cipher) load(b []byte) uint64 {
	var w uint64

	for idx := c.wordSize - 1; idx >= 0; idx-- {
		w = w<<8 | uint64(b[idx])
	}
	return w
}

func (c *Cipher) store(b []byte, w uint64) {
	for idx := 0; idx < c.wordSize; idx++ {
		b[idx] = byte(w)
		w >>= 8
	}
}
