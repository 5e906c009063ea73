package cbc_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/mxmauro/speckcbc/block"
	"github.com/mxmauro/speckcbc/crypto/cbc"
	"github.com/mxmauro/speckcbc/crypto/padding"
	"github.com/mxmauro/speckcbc/crypto/speck"
)

// -----------------------------------------------------------------------------

type wideBlock struct{}

// countingPadding records whether Unpad was reached.
type countingPadding struct {
	padding.Padding
	unpadCalls int
}

// -----------------------------------------------------------------------------

func (wideBlock) BlockSize() int          { return 256 }
func (wideBlock) Encrypt(dst, src []byte) { copy(dst, src[:256]) }
func (wideBlock) Decrypt(dst, src []byte) { copy(dst, src[:256]) }

func (c *countingPadding) Unpad(padded []byte, blockLen int) ([]byte, error) {
	c.unpadCalls++
	return c.Padding.Unpad(padded, blockLen)
}

// -----------------------------------------------------------------------------

func TestRoundTrip(t *testing.T) {
	for _, v := range speck.Variants() {
		for _, p := range []padding.Padding{padding.PKCS7, padding.ANSIX923} {
			t.Run(fmt.Sprintf("%s/%s", v.Name, p.Name()), func(t *testing.T) {
				c := newSpeck(t, v)
				mode, err := cbc.New(c, cbc.Options{Padding: p})
				if err != nil {
					t.Fatal(err)
				}
				iv := randomBlock(t, c.BlockSize())

				for _, size := range []int{0, 1, c.BlockSize() - 1, c.BlockSize(), c.BlockSize() + 1, 1000} {
					plaintext := randomBytes(t, size)

					ciphertext, err := mode.Encrypt(iv, plaintext)
					if err != nil {
						t.Fatal(err)
					}
					if len(ciphertext)%c.BlockSize() != 0 {
						t.Fatalf("ciphertext length %d not aligned", len(ciphertext))
					}
					if len(ciphertext) != len(p.Pad(plaintext, c.BlockSize())) {
						t.Fatal("ciphertext carries more than the padded plaintext")
					}

					decrypted, err := mode.Decrypt(iv, ciphertext)
					if err != nil {
						t.Fatal(err)
					}
					if !bytes.Equal(decrypted, plaintext) {
						t.Fatalf("round-trip mismatch for %d bytes", size)
					}
				}
			})
		}
	}
}

func TestChainingDefinition(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)
	mode, _ := cbc.New(c, cbc.Options{Padding: padding.PKCS7})
	iv := randomBlock(t, 16)
	plaintext := randomBytes(t, 40)

	ciphertext, err := mode.Encrypt(iv, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	t.Log("Recomputing C[i] = E(P[i] xor C[i-1]) block by block...")
	padded := padding.PKCS7.Pad(plaintext, 16)
	chain := iv
	for ofs := 0; ofs < len(padded); ofs += 16 {
		p, _ := block.New(16, padded[ofs:ofs+16])
		ct := c.EncryptBlock(p.Xor(chain))
		if !bytes.Equal(ct.Bytes(), ciphertext[ofs:ofs+16]) {
			t.Fatalf("block %d does not follow the chaining rule", ofs/16)
		}
		chain = ct
	}
}

func TestIVChangesCiphertext(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)
	mode, _ := cbc.New(c, cbc.Options{Padding: padding.PKCS7})
	plaintext := bytes.Repeat([]byte("same block text!"), 4)

	ct1, _ := mode.Encrypt(randomBlock(t, 16), plaintext)
	ct2, _ := mode.Encrypt(randomBlock(t, 16), plaintext)
	if bytes.Equal(ct1, ct2) {
		t.Fatal("different IVs produced identical ciphertexts")
	}
	if bytes.Equal(ct1[:16], ct1[16:32]) {
		t.Fatal("identical plaintext blocks produced identical ciphertext blocks")
	}
}

func TestParallelDecryptMatchesSequential(t *testing.T) {
	c := newSpeck(t, speck.Speck64_128)
	iv := randomBlock(t, c.BlockSize())

	sequential, _ := cbc.New(c, cbc.Options{Padding: padding.PKCS7})
	parallel, err := cbc.New(c, cbc.Options{Padding: padding.PKCS7, Concurrency: 4})
	if err != nil {
		t.Fatal(err)
	}
	automatic, err := cbc.New(c, cbc.Options{Padding: padding.PKCS7, Concurrency: -1})
	if err != nil {
		t.Fatal(err)
	}

	for _, size := range []int{3, 255 * 8, 256 * 8, 4096*8 + 5, 100003} {
		plaintext := randomBytes(t, size)
		ciphertext, err := sequential.Encrypt(iv, plaintext)
		if err != nil {
			t.Fatal(err)
		}

		for _, m := range []*cbc.Mode{sequential, parallel, automatic} {
			decrypted, err := m.Decrypt(iv, ciphertext)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decrypted, plaintext) {
				t.Fatalf("decryption mismatch for %d bytes", size)
			}
		}
	}
}

func TestDecryptRejectsMisalignedInputBeforeUnpadding(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)
	p := &countingPadding{Padding: padding.PKCS7}
	mode, _ := cbc.New(c, cbc.Options{Padding: p})
	iv := randomBlock(t, 16)

	for _, size := range []int{0, 1, 15, 17, 33} {
		_, err := mode.Decrypt(iv, make([]byte, size))
		if !errors.Is(err, padding.ErrWrongCiphertextLength) {
			t.Fatalf("%d bytes returned %v", size, err)
		}
	}
	if p.unpadCalls != 0 {
		t.Fatal("misaligned input reached the padding layer")
	}
}

func TestDecryptWrongPadding(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)
	pkcs7, _ := cbc.New(c, cbc.Options{Padding: padding.PKCS7})
	x923, _ := cbc.New(c, cbc.Options{Padding: padding.ANSIX923})
	iv := randomBlock(t, 16)

	plaintext := bytes.Repeat([]byte{'A'}, 10)
	ciphertext, err := pkcs7.Encrypt(iv, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	t.Log("Decrypting with a different padding scheme (expected to fail)...")
	_, err = x923.Decrypt(iv, ciphertext)
	if !errors.Is(err, padding.ErrWrongPadding) {
		t.Fatal("unexpected error:", err)
	}

	t.Log("Decrypting with a tampered IV (expected to fail)...")
	// Flipping the low bit of the last IV byte turns the pad count 6 into 7,
	// which then covers a plaintext 'A'.
	raw := iv.Bytes()
	raw[15] ^= 0x01
	badIV, _ := block.New(16, raw)
	_, err = pkcs7.Decrypt(badIV, ciphertext)
	if !errors.Is(err, padding.ErrWrongPadding) {
		t.Fatal("unexpected error:", err)
	}
}

func TestInvalidIV(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)
	mode, _ := cbc.New(c, cbc.Options{Padding: padding.PKCS7})

	_, err := mode.Encrypt(block.Zero(8), []byte("hello"))
	if !errors.Is(err, cbc.ErrInvalidIV) {
		t.Fatal("unexpected error:", err)
	}
	_, err = mode.Decrypt(block.Block{}, make([]byte, 16))
	if !errors.Is(err, cbc.ErrInvalidIV) {
		t.Fatal("unexpected error:", err)
	}
}

func TestNewValidation(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)

	if _, err := cbc.New(nil, cbc.Options{Padding: padding.PKCS7}); !errors.Is(err, cbc.ErrNilCipher) {
		t.Fatal("unexpected error:", err)
	}
	if _, err := cbc.New(c, cbc.Options{}); !errors.Is(err, cbc.ErrNilPadding) {
		t.Fatal("unexpected error:", err)
	}
	if _, err := cbc.New(wideBlock{}, cbc.Options{Padding: padding.PKCS7}); !errors.Is(err, padding.ErrInvalidBlockLength) {
		t.Fatal("unexpected error:", err)
	}

	mode, err := cbc.New(c, cbc.Options{Padding: padding.ANSIX923})
	if err != nil {
		t.Fatal(err)
	}
	if mode.BlockSize() != 16 || mode.Padding() != padding.ANSIX923 {
		t.Fatal("mode does not report its configuration")
	}
}

func TestBlockModeInPlaceAndIncremental(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)
	iv := randomBytes(t, 16)
	plaintext := randomBytes(t, 16*8)

	t.Log("Encrypting in one call and in two calls...")
	whole := make([]byte, len(plaintext))
	cbc.NewEncrypter(c, iv).CryptBlocks(whole, plaintext)

	split := make([]byte, len(plaintext))
	enc := cbc.NewEncrypter(c, iv)
	enc.CryptBlocks(split[:48], plaintext[:48])
	enc.CryptBlocks(split[48:], plaintext[48:])
	if !bytes.Equal(whole, split) {
		t.Fatal("chaining state not carried across calls")
	}

	t.Log("Decrypting in place in two calls...")
	buf := append([]byte{}, whole...)
	dec := cbc.NewDecrypter(c, iv)
	dec.CryptBlocks(buf[:32], buf[:32])
	dec.CryptBlocks(buf[32:], buf[32:])
	if !bytes.Equal(buf, plaintext) {
		t.Fatal("in-place decryption mismatch")
	}
}

func TestBlockModeMisusePanics(t *testing.T) {
	c := newSpeck(t, speck.Speck128_128)

	mustPanic(t, func() { cbc.NewEncrypter(c, make([]byte, 8)) })
	mustPanic(t, func() { cbc.NewDecrypter(c, make([]byte, 17)) })
	mustPanic(t, func() { cbc.NewEncrypter(c, make([]byte, 16)).CryptBlocks(make([]byte, 32), make([]byte, 20)) })
	mustPanic(t, func() { cbc.NewDecrypter(c, make([]byte, 16)).CryptBlocks(make([]byte, 16), make([]byte, 32)) })
}

// -----------------------------------------------------------------------------

func newSpeck(t testing.TB, v speck.Variant) *speck.Cipher {
	c, err := speck.NewCipherWithVariant(v, randomBytes(t, v.KeySize()))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func randomBytes(t testing.TB, n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	return buf
}

func randomBlock(t testing.TB, width int) block.Block {
	b, err := block.New(width, randomBytes(t, width))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	fn()
}
