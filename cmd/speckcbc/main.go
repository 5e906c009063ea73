// Command speckcbc encrypts or decrypts stdin with Speck in CBC mode and
// writes the result to stdout.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mxmauro/speckcbc/block"
	"github.com/mxmauro/speckcbc/crypto/cbc"
	"github.com/mxmauro/speckcbc/crypto/speck"
	"github.com/mxmauro/speckcbc/util"
)

// -----------------------------------------------------------------------------

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	defer util.SafeZeroMem(cfg.Key)

	setupLogging(cfg)

	log.Debug().
		Str("variant", cfg.Variant.Name).
		Str("padding", cfg.Padding.Name()).
		Bool("decrypt", cfg.Decrypt).
		Int("workers", cfg.Workers).
		Msg("Configuration loaded")

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to read input")
	}

	output, err := run(cfg, input)
	if err != nil {
		log.Fatal().Err(err).Msg("Operation failed")
	}

	_, err = os.Stdout.Write(output)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to write output")
	}
}

// run encrypts or decrypts input according to cfg. When encrypting without an
// IV, a random one is generated and logged so the output can be decrypted.
func run(cfg *Config, input []byte) ([]byte, error) {
	c, err := speck.NewCipherWithVariant(cfg.Variant, cfg.Key)
	if err != nil {
		return nil, err
	}
	defer c.Zeroize()

	mode, err := cbc.New(c, cbc.Options{
		Padding:     cfg.Padding,
		Concurrency: cfg.Workers,
	})
	if err != nil {
		return nil, err
	}

	ivBytes := cfg.IV
	if ivBytes == nil {
		ivBytes = make([]byte, c.BlockSize())
		_, err = io.ReadFull(rand.Reader, ivBytes)
		if err != nil {
			return nil, util.Wrap(err, "unable to generate iv")
		}
		log.Info().Str("iv", hex.EncodeToString(ivBytes)).Msg("Generated random iv")
	}
	iv, err := block.New(c.BlockSize(), ivBytes)
	if err != nil {
		return nil, util.Wrap(err, "invalid iv")
	}

	if cfg.Decrypt {
		return mode.Decrypt(iv, input)
	}
	return mode.Encrypt(iv, input)
}

func setupLogging(cfg *Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch cfg.Log.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// stdout carries the payload, so logs always go to stderr
	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
