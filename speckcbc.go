// Package speckcbc is a symmetric block cipher toolkit built around
// Speck128/128 in cipher block chaining mode.
//
// The functions in this package derive a fresh round key schedule on every
// call and wipe it before returning. Callers encrypting many messages under
// the same key should build a speck.Cipher and a cbc.Mode once and reuse them.
package speckcbc

import (
	"fmt"

	"github.com/mxmauro/speckcbc/block"
	"github.com/mxmauro/speckcbc/crypto/cbc"
	"github.com/mxmauro/speckcbc/crypto/padding"
	"github.com/mxmauro/speckcbc/crypto/speck"
)

// -----------------------------------------------------------------------------

const (
	// BlockSize is the Speck128/128 block size in bytes.
	BlockSize = 16
	// KeySize is the Speck128/128 key size in bytes.
	KeySize = 16
)

var (
	PKCS7    = padding.PKCS7
	ANSIX923 = padding.ANSIX923
)

// -----------------------------------------------------------------------------

// NewBlock wraps exactly BlockSize bytes into a block.
func NewBlock(data []byte) (block.Block, error) {
	return block.New(BlockSize, data)
}

// EncryptBlock encrypts a single block under key.
func EncryptBlock(key []byte, b block.Block) (block.Block, error) {
	c, err := newCipher(key, b)
	if err != nil {
		return block.Block{}, err
	}
	defer c.Zeroize()

	return c.EncryptBlock(b), nil
}

// DecryptBlock decrypts a single block under key.
func DecryptBlock(key []byte, b block.Block) (block.Block, error) {
	c, err := newCipher(key, b)
	if err != nil {
		return block.Block{}, err
	}
	defer c.Zeroize()

	return c.DecryptBlock(b), nil
}

// Pad applies the padding scheme p for the given block length.
func Pad(p padding.Padding, plaintext []byte, blockLen int) ([]byte, error) {
	if p == nil {
		return nil, ErrNilPadding
	}
	err := padding.ValidateBlockLen(blockLen)
	if err != nil {
		return nil, err
	}
	return p.Pad(plaintext, blockLen), nil
}

// Unpad removes padding applied with the scheme p.
func Unpad(p padding.Padding, padded []byte, blockLen int) ([]byte, error) {
	if p == nil {
		return nil, ErrNilPadding
	}
	return p.Unpad(padded, blockLen)
}

// CBCEncrypt pads plaintext with p and encrypts it in CBC mode. The IV is not
// part of the output.
func CBCEncrypt(key []byte, iv block.Block, plaintext []byte, p padding.Padding) ([]byte, error) {
	c, mode, err := newMode(key, p)
	if err != nil {
		return nil, err
	}
	defer c.Zeroize()

	return mode.Encrypt(iv, plaintext)
}

// CBCDecrypt decrypts a CBC ciphertext and removes the padding p.
func CBCDecrypt(key []byte, iv block.Block, ciphertext []byte, p padding.Padding) ([]byte, error) {
	c, mode, err := newMode(key, p)
	if err != nil {
		return nil, err
	}
	defer c.Zeroize()

	return mode.Decrypt(iv, ciphertext)
}

// -----------------------------------------------------------------------------

func newCipher(key []byte, b block.Block) (*speck.Cipher, error) {
	if b.Len() != BlockSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBlockWidth, b.Len(), BlockSize)
	}
	return speck.NewCipher(key)
}

func newMode(key []byte, p padding.Padding) (*speck.Cipher, *cbc.Mode, error) {
	c, err := speck.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	mode, err := cbc.New(c, cbc.Options{
		Padding: p,
	})
	if err != nil {
		c.Zeroize()
		return nil, nil, err
	}
	return c, mode, nil
}
