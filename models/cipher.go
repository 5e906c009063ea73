package models

// -----------------------------------------------------------------------------

// Cipher is the interface implemented by every registered encryption engine.
// Unlike the raw CBC mode, an engine owns its IV handling: Encrypt output is
// self-contained and can be given back to Decrypt as is.
type Cipher interface {
	// KeyLen returns the length of the key used by the cipher.
	KeyLen() int
	// BlockSize returns the block size of the underlying block cipher.
	BlockSize() int

	// Encrypt encrypts the given plaintext using a fresh IV.
	Encrypt(plaintext []byte) ([]byte, error)
	// Decrypt decrypts data produced by Encrypt.
	Decrypt(ciphertext []byte) ([]byte, error)

	// Zeroize wipes key material held by the cipher.
	Zeroize()
}
