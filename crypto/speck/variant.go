package speck

import (
	"errors"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------

// Variant is a Speck parameter set. The block is made of two words of
// BlockBits/2 bits each and the key of KeyBits/(BlockBits/2) words.
type Variant struct {
	Name      string
	BlockBits int
	KeyBits   int
	Rounds    int

	// Alpha is the right rotation applied to the first word, Beta the left
	// rotation applied to the second one.
	Alpha uint
	Beta  uint
}

// -----------------------------------------------------------------------------

// The published Speck parameter sets.
var (
	Speck32_64   = Variant{Name: "speck32/64", BlockBits: 32, KeyBits: 64, Rounds: 22, Alpha: 7, Beta: 2}
	Speck48_72   = Variant{Name: "speck48/72", BlockBits: 48, KeyBits: 72, Rounds: 22, Alpha: 8, Beta: 3}
	Speck48_96   = Variant{Name: "speck48/96", BlockBits: 48, KeyBits: 96, Rounds: 23, Alpha: 8, Beta: 3}
	Speck64_96   = Variant{Name: "speck64/96", BlockBits: 64, KeyBits: 96, Rounds: 26, Alpha: 8, Beta: 3}
	Speck64_128  = Variant{Name: "speck64/128", BlockBits: 64, KeyBits: 128, Rounds: 27, Alpha: 8, Beta: 3}
	Speck96_96   = Variant{Name: "speck96/96", BlockBits: 96, KeyBits: 96, Rounds: 28, Alpha: 8, Beta: 3}
	Speck96_144  = Variant{Name: "speck96/144", BlockBits: 96, KeyBits: 144, Rounds: 29, Alpha: 8, Beta: 3}
	Speck128_128 = Variant{Name: "speck128/128", BlockBits: 128, KeyBits: 128, Rounds: 32, Alpha: 8, Beta: 3}
	Speck128_192 = Variant{Name: "speck128/192", BlockBits: 128, KeyBits: 192, Rounds: 33, Alpha: 8, Beta: 3}
	Speck128_256 = Variant{Name: "speck128/256", BlockBits: 128, KeyBits: 256, Rounds: 34, Alpha: 8, Beta: 3}

	// Default is the variant used by NewCipher.
	Default = Speck128_128
)

var variantsList = []Variant{
	Speck32_64, Speck48_72, Speck48_96, Speck64_96, Speck64_128,
	Speck96_96, Speck96_144, Speck128_128, Speck128_192, Speck128_256,
}

var ErrInvalidVariant = errors.New("speck: invalid variant")

// -----------------------------------------------------------------------------

// Variants returns every published parameter set, smallest block first.
func Variants() []Variant {
	list := make([]Variant, len(variantsList))
	copy(list, variantsList)
	return list
}

// LookupVariant returns the variant with the given name, e.g. "speck128/128".
// Matching is case-insensitive and accepts '-' or '_' in place of '/'.
func LookupVariant(name string) (Variant, error) {
	name = strings.ToLower(name)
	name = strings.NewReplacer("-", "/", "_", "/").Replace(name)
	for _, v := range variantsList {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: unknown name %q", ErrInvalidVariant, name)
}

// WordBits returns the width of one block half in bits.
func (v Variant) WordBits() int {
	return v.BlockBits / 2
}

// BlockSize returns the block size in bytes.
func (v Variant) BlockSize() int {
	return v.BlockBits / 8
}

// KeySize returns the key size in bytes.
func (v Variant) KeySize() int {
	return v.KeyBits / 8
}

// KeyWords returns the number of words in a key.
func (v Variant) KeyWords() int {
	return v.KeyBits / v.WordBits()
}

// Validate checks that the parameters describe a computable Speck instance.
func (v Variant) Validate() error {
	n := v.WordBits()
	switch {
	case v.BlockBits%16 != 0 || n < 16 || n > 64:
		return fmt.Errorf("%w: block size of %d bits", ErrInvalidVariant, v.BlockBits)
	case v.KeyBits%n != 0 || v.KeyWords() < 2:
		return fmt.Errorf("%w: key size of %d bits", ErrInvalidVariant, v.KeyBits)
	case v.Rounds < 1:
		return fmt.Errorf("%w: %d rounds", ErrInvalidVariant, v.Rounds)
	case v.Alpha == 0 || v.Beta == 0 || int(v.Alpha) >= n || int(v.Beta) >= n:
		return fmt.Errorf("%w: rotation amounts %d/%d", ErrInvalidVariant, v.Alpha, v.Beta)
	}
	return nil
}

// String returns the variant name.
func (v Variant) String() string {
	if len(v.Name) > 0 {
		return v.Name
	}
	return fmt.Sprintf("speck%d/%d", v.BlockBits, v.KeyBits)
}
