// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package capture opens captured messages: CBOR payloads saved to disk
// by a proxy or test harness, possibly compressed with zstd or LZ4
// (frame format) and possibly encrypted to an age recipient. Layers
// are recognized by their magic bytes and removed outermost first,
// so a capture may be compressed, then encrypted, or both.
//
// A bare CBOR data item never starts with one of the recognized magic
// sequences and is returned unchanged: 0x28 and 0x04 are complete
// one-byte integers, which a single-item message cannot be followed
// by, and "a" (0x61) begins a one-byte text string.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// MaxMessageSize bounds the plaintext produced by any one layer.
const MaxMessageSize = 64 << 20

// maxLayers bounds how many containers Open will peel.
const maxLayers = 4

// Format identifies one layer around a captured message.
type Format uint8

const (
	// Raw is CBOR with no container.
	Raw Format = iota
	// Zstd is a zstd frame (RFC 8878).
	Zstd
	// LZ4 is an LZ4 frame.
	LZ4
	// Age is a binary age v1 file.
	Age
)

// String returns the human-readable name of a format.
func (f Format) String() string {
	switch f {
	case Raw:
		return "raw"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	case Age:
		return "age"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	ageMagic  = []byte("age-encryption.org/v1\n")
)

// ErrNoIdentity is returned when a capture is encrypted and no
// identities were supplied.
var ErrNoIdentity = errors.New("capture is age-encrypted and no identity was given")

// zstdDecoder is shared; zstd.Decoder.DecodeAll is safe for
// concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(MaxMessageSize),
	)
	if err != nil {
		panic("capture: zstd decoder initialization failed: " + err.Error())
	}
}

// Detect reports the outermost layer of data.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, ageMagic):
		return Age
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	case bytes.HasPrefix(data, lz4Magic):
		return LZ4
	default:
		return Raw
	}
}

// Open removes every recognized layer from data and returns the
// payload with the layers found, outermost first. identities are only
// consulted for age layers and may be nil otherwise.
func Open(data []byte, identities []age.Identity) ([]byte, []Format, error) {
	var layers []Format
	for {
		format := Detect(data)
		if format == Raw {
			return data, layers, nil
		}
		if len(layers) == maxLayers {
			return nil, layers, fmt.Errorf("more than %d nested capture layers", maxLayers)
		}
		layers = append(layers, format)

		var err error
		switch format {
		case Age:
			data, err = decryptAge(data, identities)
		case Zstd:
			data, err = zstdDecoder.DecodeAll(data, nil)
			if err != nil {
				err = fmt.Errorf("zstd decompress: %w", err)
			}
		case LZ4:
			data, err = readLimited(lz4.NewReader(bytes.NewReader(data)), "lz4 decompress")
		}
		if err != nil {
			return nil, layers, err
		}
	}
}

func decryptAge(data []byte, identities []age.Identity) ([]byte, error) {
	if len(identities) == 0 {
		return nil, ErrNoIdentity
	}
	reader, err := age.Decrypt(bytes.NewReader(data), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	return readLimited(reader, "reading decrypted plaintext")
}

func readLimited(reader io.Reader, operation string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxMessageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if len(data) > MaxMessageSize {
		return nil, fmt.Errorf("%s: plaintext exceeds %d bytes", operation, MaxMessageSize)
	}
	return data, nil
}

// ReadIdentities parses an age identity file: one AGE-SECRET-KEY-1...
// line per identity, with # comments and blank lines ignored.
func ReadIdentities(path string) ([]age.Identity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identity file: %w", err)
	}
	defer file.Close()

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return nil, fmt.Errorf("parsing identity file %s: %w", path, err)
	}
	return identities, nil
}
