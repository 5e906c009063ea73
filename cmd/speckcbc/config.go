package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/mxmauro/speckcbc/crypto/padding"
	"github.com/mxmauro/speckcbc/crypto/speck"
)

// -----------------------------------------------------------------------------

const (
	envKey       = "SPECKCBC_KEY"
	envLogLevel  = "SPECKCBC_LOG_LEVEL"
	envLogFormat = "SPECKCBC_LOG_FORMAT"
)

var (
	errMissingKey = errors.New("a key must be given with -key or " + envKey)
	errMissingIV  = errors.New("an iv must be given with -iv when decrypting")
)

// -----------------------------------------------------------------------------

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console, json
}

// Config represents the command configuration
type Config struct {
	Decrypt bool
	Key     []byte
	IV      []byte // nil when a random one must be generated
	Variant speck.Variant
	Padding padding.Padding
	Workers int
	Log     LogConfig
}

// -----------------------------------------------------------------------------

// parseConfig reads the command line flags. Settings that are absent from the
// command line fall back to the environment through getenv.
func parseConfig(args []string, getenv func(string) string, stderr io.Writer) (*Config, error) {
	var keyHex, ivHex, variantName, paddingName string

	cfg := &Config{}

	fs := flag.NewFlagSet("speckcbc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.Decrypt, "decrypt", false, "decrypt stdin instead of encrypting it")
	fs.StringVar(&keyHex, "key", "", "hex encoded key (env "+envKey+")")
	fs.StringVar(&ivHex, "iv", "", "hex encoded initialization vector")
	fs.StringVar(&variantName, "variant", speck.Default.Name, "speck parameter set")
	fs.StringVar(&paddingName, "padding", padding.PKCS7.Name(), "padding scheme")
	fs.IntVar(&cfg.Workers, "workers", 1, "decryption goroutines, negative uses every cpu")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "debug, info, warn or error (env "+envLogLevel+")")
	fs.StringVar(&cfg.Log.Format, "log-format", "", "console or json (env "+envLogFormat+")")
	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}

	keyHex = withFallback(keyHex, getenv(envKey))
	cfg.Log.Level = withFallback(cfg.Log.Level, getenv(envLogLevel), "info")
	cfg.Log.Format = withFallback(cfg.Log.Format, getenv(envLogFormat), "console")

	cfg.Variant, err = speck.LookupVariant(variantName)
	if err != nil {
		return nil, err
	}
	cfg.Padding, err = padding.Get(paddingName)
	if err != nil {
		return nil, err
	}

	if len(keyHex) == 0 {
		return nil, errMissingKey
	}
	cfg.Key, err = hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	if len(cfg.Key) != cfg.Variant.KeySize() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", speck.ErrInvalidKeySize, cfg.Variant,
			cfg.Variant.KeySize(), len(cfg.Key))
	}

	if len(ivHex) > 0 {
		cfg.IV, err = hex.DecodeString(ivHex)
		if err != nil {
			return nil, fmt.Errorf("invalid iv: %w", err)
		}
		if len(cfg.IV) != cfg.Variant.BlockSize() {
			return nil, fmt.Errorf("invalid iv: %s needs %d bytes, got %d", cfg.Variant, cfg.Variant.BlockSize(),
				len(cfg.IV))
		}
	} else if cfg.Decrypt {
		return nil, errMissingIV
	}

	// Done.
	return cfg, nil
}

func withFallback(values ...string) string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return ""
}
