// Package padding implements reversible schemes that extend plaintext to a
// multiple of a cipher block length.
//
// The pad count of every scheme here is stored in a single byte, so the
// block length must be in the range [1, 255].
package padding

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// -----------------------------------------------------------------------------

// Padding is a block padding scheme.
type Padding interface {
	// Name returns the registry name of the scheme.
	Name() string

	// Pad returns a new buffer holding plaintext followed by 1 to blockLen
	// padding bytes. It panics if blockLen is outside [1, 255].
	Pad(plaintext []byte, blockLen int) []byte

	// Unpad validates the padding at the tail of padded and returns the bytes
	// that precede it. The result is a sub-slice of padded.
	Unpad(padded []byte, blockLen int) ([]byte, error)
}

// -----------------------------------------------------------------------------

var (
	// ErrWrongCiphertextLength is returned when the input is empty or not a
	// multiple of the block length.
	ErrWrongCiphertextLength = errors.New("wrong ciphertext length")

	// ErrWrongPadding is returned when the trailing bytes do not form valid
	// padding for the scheme.
	ErrWrongPadding = errors.New("wrong padding")

	// ErrInvalidBlockLength is a configuration error: the block length is not
	// in [1, 255].
	ErrInvalidBlockLength = errors.New("block length must be between 1 and 255")

	ErrPaddingNotSupported = errors.New("padding not supported")
)

const (
	MaxBlockLen = 255
)

// -----------------------------------------------------------------------------

var (
	registryMtx sync.RWMutex
	registry    = map[string]Padding{
		PKCS7.Name():    PKCS7,
		ANSIX923.Name(): ANSIX923,
	}
)

// -----------------------------------------------------------------------------

// ValidateBlockLen checks that n can be encoded in a single pad-count byte.
func ValidateBlockLen(n int) error {
	if n <= 0 || n > MaxBlockLen {
		return fmt.Errorf("%w: %d", ErrInvalidBlockLength, n)
	}
	return nil
}

// IsPaddingError reports whether err is one of the data-dependent padding
// failures, as opposed to a configuration error.
func IsPaddingError(err error) bool {
	return errors.Is(err, ErrWrongCiphertextLength) || errors.Is(err, ErrWrongPadding)
}

// Get returns the padding scheme registered under the given name.
func Get(name string) (Padding, error) {
	registryMtx.RLock()
	defer registryMtx.RUnlock()

	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPaddingNotSupported, name)
	}
	return p, nil
}

// IsSupported returns true if a padding scheme is registered under name.
func IsSupported(name string) bool {
	registryMtx.RLock()
	defer registryMtx.RUnlock()

	_, ok := registry[name]
	return ok
}

// Supported returns the sorted names of every registered padding scheme.
func Supported() []string {
	registryMtx.RLock()
	defer registryMtx.RUnlock()

	list := make([]string, 0, len(registry))
	for name := range registry {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// Register adds a custom padding scheme.
func Register(p Padding) error {
	if p == nil {
		return errors.New("padding cannot be nil")
	}
	name := p.Name()
	if len(name) == 0 {
		return errors.New("padding name cannot be empty")
	}

	registryMtx.Lock()
	defer registryMtx.Unlock()

	if _, ok := registry[name]; ok {
		return errors.New("padding already exists")
	}
	registry[name] = p

	// Done.
	return nil
}

// -----------------------------------------------------------------------------

func mustValidBlockLen(blockLen int) {
	if blockLen <= 0 || blockLen > MaxBlockLen {
		panic(fmt.Sprintf("padding: invalid block length %d", blockLen))
	}
}

// padBuffer allocates the final padded buffer and copies plaintext into it.
// It returns the buffer and the number of padding bytes still to be written.
func padBuffer(plaintext []byte, blockLen int) ([]byte, int) {
	mustValidBlockLen(blockLen)

	n := blockLen - len(plaintext)%blockLen
	out := make([]byte, len(plaintext)+n)
	copy(out, plaintext)
	return out, n
}

// padCount runs the checks common to every scheme and returns the pad count
// stored in the last byte.
func padCount(padded []byte, blockLen int) (int, error) {
	if err := ValidateBlockLen(blockLen); err != nil {
		return 0, err
	}

	l := len(padded)
	if l == 0 || l%blockLen != 0 {
		return 0, ErrWrongCiphertextLength
	}

	// A zero count must be rejected before it is used to index the tail.
	n := int(padded[l-1])
	if n == 0 || n > blockLen {
		return 0, ErrWrongPadding
	}
	return n, nil
}
