package ciphers

import (
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/mxmauro/speckcbc/crypto/ciphers/speck_cbc"
	"github.com/mxmauro/speckcbc/crypto/padding"
	"github.com/mxmauro/speckcbc/crypto/speck"
	"github.com/mxmauro/speckcbc/models"
)

// -----------------------------------------------------------------------------

type GenerateKeyFunc func(io.Reader) ([]byte, error)
type NewFromKeyFunc func([]byte, io.Reader) (models.Cipher, error)

type engineFunc struct {
	GenerateKey GenerateKeyFunc
	NewFromKey  NewFromKeyFunc
}

// -----------------------------------------------------------------------------

// DefaultEngine is Speck128/128 in CBC mode with PKCS#7 padding.
const DefaultEngine = "speck128-128-cbc-pkcs7"

var (
	enginesMtx  sync.RWMutex
	enginesList = make(map[string]engineFunc)
)

var ErrEngineNotSupported = errors.New("engine not supported")

// -----------------------------------------------------------------------------

func init() {
	// Register every Speck variant with every built-in padding.
	for _, v := range speck.Variants() {
		for _, p := range []padding.Padding{padding.PKCS7, padding.ANSIX923} {
			e := speck_cbc.New(v, p)
			enginesList[e.Name()] = engineFunc{
				GenerateKey: e.GenerateKey,
				NewFromKey:  e.NewFromKey,
			}
		}
	}
}

// SupportedEngines returns a sorted list of supported encryption engines.
func SupportedEngines() []string {
	enginesMtx.RLock()
	defer enginesMtx.RUnlock()

	list := make([]string, 0, len(enginesList))
	for name := range enginesList {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// IsEngineSupported returns true if the given encryption engine is supported.
func IsEngineSupported(engine string) bool {
	enginesMtx.RLock()
	defer enginesMtx.RUnlock()

	_, ok := enginesList[engine]
	return ok
}

// RegisterEngine registers a custom encryption engine.
func RegisterEngine(engine string, generateKey GenerateKeyFunc, newFromKey NewFromKeyFunc) error {
	if len(engine) == 0 {
		return errors.New("engine name cannot be empty")
	}
	if generateKey == nil || newFromKey == nil {
		return errors.New("generateKey and newFromKey cannot be nil")
	}

	enginesMtx.Lock()
	defer enginesMtx.Unlock()

	// Check if the engine is already registered
	if _, ok := enginesList[engine]; ok {
		return errors.New("engine already exists")
	}

	// Add the engine to the list.
	enginesList[engine] = engineFunc{
		GenerateKey: generateKey,
		NewFromKey:  newFromKey,
	}

	// Done.
	return nil
}

// GenerateKey generates a new key for the given encryption engine.
func GenerateKey(engine string, r io.Reader) ([]byte, error) {
	e, ok := lookup(engine)
	if !ok {
		return nil, ErrEngineNotSupported
	}
	return e.GenerateKey(r)
}

// NewFromKey creates a new cipher object from the given key and encryption engine.
func NewFromKey(engine string, key []byte, r io.Reader) (models.Cipher, error) {
	e, ok := lookup(engine)
	if !ok {
		return nil, ErrEngineNotSupported
	}
	return e.NewFromKey(key, r)
}

func lookup(engine string) (engineFunc, bool) {
	enginesMtx.RLock()
	defer enginesMtx.RUnlock()

	e, ok := enginesList[engine]
	return e, ok
}
