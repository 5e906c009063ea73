package cbc

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"runtime"

	"github.com/mxmauro/speckcbc/block"
	"github.com/mxmauro/speckcbc/crypto/padding"
	"github.com/mxmauro/speckcbc/util"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------

const (
	// Below this many blocks the goroutine overhead outweighs the gain.
	minParallelBlocks = 256
)

var (
	ErrNilCipher  = errors.New("cbc: cipher cannot be nil")
	ErrNilPadding = errors.New("cbc: padding cannot be nil")
	ErrInvalidIV  = errors.New("cbc: iv length does not match the cipher block size")

	// ErrWrongCiphertextLength is returned by Decrypt before any block is
	// processed when the ciphertext is empty or not block aligned.
	ErrWrongCiphertextLength = padding.ErrWrongCiphertextLength
)

// -----------------------------------------------------------------------------

// Options configure a Mode.
type Options struct {
	// Padding scheme used to align plaintext. Required.
	Padding padding.Padding

	// Concurrency is the number of goroutines used to decrypt large inputs.
	// Zero or one decrypts sequentially, a negative value uses GOMAXPROCS.
	// The cipher must be safe for concurrent use when it is greater than one.
	Concurrency int
}

// Mode encrypts and decrypts whole messages in CBC mode with padding.
type Mode struct {
	b       cipher.Block
	p       padding.Padding
	bs      int
	workers int
}

// -----------------------------------------------------------------------------

// New creates a CBC mode over the given block cipher. Configuration errors,
// such as a block size that the padding cannot encode, are reported here.
func New(b cipher.Block, opts Options) (*Mode, error) {
	if b == nil {
		return nil, ErrNilCipher
	}
	if opts.Padding == nil {
		return nil, ErrNilPadding
	}

	bs := b.BlockSize()
	err := padding.ValidateBlockLen(bs)
	if err != nil {
		return nil, util.Wrap(err, "cbc: unsupported cipher block size")
	}

	workers := opts.Concurrency
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	} else if workers == 0 {
		workers = 1
	}

	// Done.
	return &Mode{
		b:       b,
		p:       opts.Padding,
		bs:      bs,
		workers: workers,
	}, nil
}

// BlockSize returns the cipher block size in bytes.
func (m *Mode) BlockSize() int {
	return m.bs
}

// Padding returns the padding scheme of the mode.
func (m *Mode) Padding() padding.Padding {
	return m.p
}

// Encrypt pads plaintext and encrypts it. The returned buffer is newly
// allocated and its length is a multiple of the block size.
func (m *Mode) Encrypt(iv block.Block, plaintext []byte) ([]byte, error) {
	err := m.checkIV(iv)
	if err != nil {
		return nil, err
	}

	out := m.p.Pad(plaintext, m.bs)
	NewEncrypter(m.b, iv.Bytes()).CryptBlocks(out, out)

	// Done.
	return out, nil
}

// Decrypt decrypts ciphertext and removes its padding. Padding failures are
// reported as padding.ErrWrongCiphertextLength or padding.ErrWrongPadding.
func (m *Mode) Decrypt(iv block.Block, ciphertext []byte) ([]byte, error) {
	err := m.checkIV(iv)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%m.bs != 0 {
		return nil, ErrWrongCiphertextLength
	}

	out := make([]byte, len(ciphertext))
	if m.workers > 1 && len(ciphertext)/m.bs >= minParallelBlocks {
		m.decryptParallel(out, ciphertext, iv.Bytes())
	} else {
		NewDecrypter(m.b, iv.Bytes()).CryptBlocks(out, ciphertext)
	}

	// Done.
	return m.p.Unpad(out, m.bs)
}

// -----------------------------------------------------------------------------

func (m *Mode) checkIV(iv block.Block) error {
	if iv.Len() != m.bs {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIV, iv.Len(), m.bs)
	}
	return nil
}

// decryptParallel runs the block cipher over independent chunks of blocks
// and then applies the chaining XOR in a single pass. Every plaintext block
// depends only on ciphertext blocks i and i-1, which are both already known.
func (m *Mode) decryptParallel(dst, src []byte, iv []byte) {
	blocks := len(src) / m.bs
	perWorker := (blocks + m.workers - 1) / m.workers

	g := errgroup.Group{}
	g.SetLimit(m.workers)
	for first := 0; first < blocks; first += perWorker {
		start := first * m.bs
		end := min(first+perWorker, blocks) * m.bs
		g.Go(func() error {
			for ofs := start; ofs < end; ofs += m.bs {
				m.b.Decrypt(dst[ofs:ofs+m.bs], src[ofs:ofs+m.bs])
			}
			return nil
		})
	}
	_ = g.Wait()

	block.XorBytes(dst[:m.bs], dst[:m.bs], iv)
	for ofs := m.bs; ofs < len(src); ofs += m.bs {
		block.XorBytes(dst[ofs:ofs+m.bs], dst[ofs:ofs+m.bs], src[ofs-m.bs:ofs])
	}
}
