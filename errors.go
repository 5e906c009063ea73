package speckcbc

import (
	"errors"

	"github.com/mxmauro/speckcbc/crypto/cbc"
	"github.com/mxmauro/speckcbc/crypto/padding"
	"github.com/mxmauro/speckcbc/crypto/speck"
)

// -----------------------------------------------------------------------------

var (
	// ErrWrongCiphertextLength is returned when a ciphertext or padded buffer is
	// empty or not a multiple of the block length.
	ErrWrongCiphertextLength = padding.ErrWrongCiphertextLength

	// ErrWrongPadding is returned when the trailing bytes fail the validation of
	// the padding scheme.
	ErrWrongPadding = padding.ErrWrongPadding

	ErrInvalidBlockLength = padding.ErrInvalidBlockLength
	ErrInvalidKeySize     = speck.ErrInvalidKeySize
	ErrInvalidIV          = cbc.ErrInvalidIV
	ErrInvalidBlockWidth  = errors.New("block width does not match the cipher block size")
	ErrNilPadding         = cbc.ErrNilPadding
)
