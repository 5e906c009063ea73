package speck_cbc

import (
	"errors"
	"io"
	"strings"
	"sync"

	bstd "github.com/deneonet/benc/std"
	"github.com/mxmauro/speckcbc/block"
	"github.com/mxmauro/speckcbc/crypto/cbc"
	"github.com/mxmauro/speckcbc/crypto/padding"
	"github.com/mxmauro/speckcbc/crypto/speck"
	"github.com/mxmauro/speckcbc/models"
	"github.com/mxmauro/speckcbc/util"
)

// -----------------------------------------------------------------------------

const (
	envelopeVersion = 1
)

var ErrInvalidEnvelope = errors.New("invalid ciphertext envelope")

// -----------------------------------------------------------------------------

// Engine describes a Speck variant running in CBC mode with a padding scheme.
type Engine struct {
	variant speck.Variant
	padding padding.Padding
}

type speckCbcCipher struct {
	r      io.Reader
	block  *speck.Cipher
	mode   *cbc.Mode
	keyLen int

	ivSize int
	ivPool sync.Pool
}

// -----------------------------------------------------------------------------

// New returns the engine for the given variant and padding scheme.
func New(v speck.Variant, p padding.Padding) Engine {
	return Engine{
		variant: v,
		padding: p,
	}
}

// Name returns the registry name of the engine, e.g. "speck128-128-cbc-pkcs7".
func (e Engine) Name() string {
	return strings.ReplaceAll(e.variant.Name, "/", "-") + "-cbc-" + e.padding.Name()
}

// Variant returns the Speck parameter set of the engine.
func (e Engine) Variant() speck.Variant {
	return e.variant
}

// GenerateKey reads a new random key of the variant's key size.
func (e Engine) GenerateKey(r io.Reader) ([]byte, error) {
	key := make([]byte, e.variant.KeySize())

	_, err := io.ReadFull(r, key)
	if err != nil {
		return nil, util.Wrap(err, "unable to generate key")
	}

	// Done.
	return key, nil
}

// NewFromKey creates a cipher object from the given key. IVs are read from r.
func (e Engine) NewFromKey(key []byte, r io.Reader) (models.Cipher, error) {
	if r == nil {
		return nil, errors.New("random generator reader cannot be nil")
	}

	// Create the block cipher. It derives its own schedule, so the key is not retained.
	sc, err := speck.NewCipherWithVariant(e.variant, key)
	if err != nil {
		return nil, util.Wrap(err, "failed to create cipher")
	}

	// Create the chaining mode.
	mode, err := cbc.New(sc, cbc.Options{
		Padding: e.padding,
	})
	if err != nil {
		sc.Zeroize()
		return nil, util.Wrap(err, "failed to create cipher")
	}

	// Create a cipher object.
	c := &speckCbcCipher{
		r:      r,
		block:  sc,
		mode:   mode,
		keyLen: len(key),
		ivSize: sc.BlockSize(),
	}
	c.ivPool.New = func() interface{} {
		return make([]byte, c.ivSize)
	}

	// Done.
	return c, nil
}

// KeyLen returns the length of the key used by the cipher.
func (c *speckCbcCipher) KeyLen() int {
	return c.keyLen
}

// BlockSize returns the Speck block size.
func (c *speckCbcCipher) BlockSize() int {
	return c.ivSize
}

// Encrypt encrypts the plaintext under a random IV and returns an envelope
// holding both.
func (c *speckCbcCipher) Encrypt(plaintext []byte) ([]byte, error) {
	// Generate a random IV.
	iv := c.ivPool.Get().([]byte)
	defer c.ivPool.Put(iv)

	_, err := io.ReadFull(c.r, iv)
	if err != nil {
		return nil, util.Wrap(err, "unable to generate iv")
	}
	ivBlock, err := block.New(c.ivSize, iv)
	if err != nil {
		return nil, err
	}

	// Encrypt the plain text.
	ciphertext, err := c.mode.Encrypt(ivBlock, plaintext)
	if err != nil {
		return nil, err
	}

	// Build the output.
	bufSize := bstd.SizeUint16() + bstd.SizeBytes(iv) + bstd.SizeBytes(ciphertext)
	output := make([]byte, bufSize)

	ofs := bstd.MarshalUint16(0, output, envelopeVersion)
	ofs = bstd.MarshalBytes(ofs, output, iv)
	_ = bstd.MarshalBytes(ofs, output, ciphertext)

	// Done.
	return output, nil
}

// Decrypt opens an envelope produced by Encrypt.
func (c *speckCbcCipher) Decrypt(envelope []byte) ([]byte, error) {
	var iv []byte
	var ciphertext []byte

	if len(envelope) <= bstd.SizeUint16() {
		return nil, ErrInvalidEnvelope
	}

	// Deserialize data.
	ofs, version, err := bstd.UnmarshalUint16(0, envelope)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	switch version {
	case 1:
		ofs, iv, err = bstd.UnmarshalBytesCopied(ofs, envelope)
		if err != nil {
			return nil, ErrInvalidEnvelope
		}
		ofs, ciphertext, err = bstd.UnmarshalBytesCopied(ofs, envelope)
		if err != nil {
			return nil, ErrInvalidEnvelope
		}

	default:
		return nil, errors.New("unsupported ciphertext envelope version")
	}

	// Check if we reached the end of the buffer.
	if ofs != len(envelope) {
		return nil, ErrInvalidEnvelope
	}

	ivBlock, err := block.New(c.ivSize, iv)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}

	// Done.
	return c.mode.Decrypt(ivBlock, ciphertext)
}

// Zeroize wipes the round key schedule.
func (c *speckCbcCipher) Zeroize() {
	c.block.Zeroize()
}
