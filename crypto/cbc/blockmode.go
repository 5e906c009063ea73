// Package cbc implements cipher block chaining over any fixed-width block
// cipher.
//
// The raw chaining is exposed as crypto/cipher.BlockMode values for callers
// that handle alignment themselves; Mode adds padding on top of it. The IV is
// never written into the output.
package cbc

import (
	"crypto/cipher"
	"fmt"

	"github.com/mxmauro/speckcbc/block"
)

// -----------------------------------------------------------------------------

type encrypter struct {
	b  cipher.Block
	bs int
	iv []byte
}

type decrypter struct {
	b    cipher.Block
	bs   int
	iv   []byte
	next []byte
}

// -----------------------------------------------------------------------------

// NewEncrypter returns a BlockMode which encrypts in cipher block chaining
// mode. The length of iv must equal the cipher block size.
func NewEncrypter(b cipher.Block, iv []byte) cipher.BlockMode {
	bs := b.BlockSize()
	if len(iv) != bs {
		panic(fmt.Sprintf("cbc: iv length %d does not match block size %d", len(iv), bs))
	}
	e := &encrypter{
		b:  b,
		bs: bs,
		iv: make([]byte, bs),
	}
	copy(e.iv, iv)
	return e
}

func (e *encrypter) BlockSize() int {
	return e.bs
}

func (e *encrypter) CryptBlocks(dst, src []byte) {
	checkBuffers(dst, src, e.bs)

	for ofs := 0; ofs < len(src); ofs += e.bs {
		out := dst[ofs : ofs+e.bs]
		block.XorBytes(out, src[ofs:ofs+e.bs], e.iv)
		e.b.Encrypt(out, out)
		copy(e.iv, out)
	}
}

// NewDecrypter returns a BlockMode which decrypts in cipher block chaining
// mode. The length of iv must equal the cipher block size.
func NewDecrypter(b cipher.Block, iv []byte) cipher.BlockMode {
	bs := b.BlockSize()
	if len(iv) != bs {
		panic(fmt.Sprintf("cbc: iv length %d does not match block size %d", len(iv), bs))
	}
	d := &decrypter{
		b:    b,
		bs:   bs,
		iv:   make([]byte, bs),
		next: make([]byte, bs),
	}
	copy(d.iv, iv)
	return d
}

func (d *decrypter) BlockSize() int {
	return d.bs
}

func (d *decrypter) CryptBlocks(dst, src []byte) {
	checkBuffers(dst, src, d.bs)

	for ofs := 0; ofs < len(src); ofs += d.bs {
		// Keep the ciphertext block; dst may be src.
		copy(d.next, src[ofs:ofs+d.bs])

		out := dst[ofs : ofs+d.bs]
		d.b.Decrypt(out, src[ofs:ofs+d.bs])
		block.XorBytes(out, out, d.iv)

		d.iv, d.next = d.next, d.iv
	}
}

// -----------------------------------------------------------------------------

func checkBuffers(dst, src []byte, bs int) {
	if len(src)%bs != 0 {
		panic("cbc: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("cbc: output smaller than input")
	}
}
