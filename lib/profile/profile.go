// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile loads read profiles: files that list the paths a
// consumer of some message type is expected to read. Checking a
// message against a profile answers "does this message carry anything
// beyond what the consumer looks at?".
//
// Profiles are authored as YAML (.yaml, .yml) or as JSONC (JSON with
// comments and trailing commas, any other extension):
//
//	# status-request.yaml
//	name: status-request
//	description: Fields read by the status handler.
//	read:
//	  - $.1
//	  - $.2.0
//
// Unknown fields are an error. A profile that silently ignored a
// misspelled key would be the same failure this tool exists to catch.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/cborcheck/lib/tree"
)

// Format selects the profile file syntax.
type Format string

const (
	// YAML profiles are parsed with gopkg.in/yaml.v3.
	YAML Format = "yaml"
	// JSONC profiles have comments and trailing commas stripped, then
	// are parsed as JSON.
	JSONC Format = "jsonc"
)

// Profile is the set of paths a consumer reads from a message.
type Profile struct {
	// Name identifies the message type. Defaults to the file name
	// without extension when loaded from disk.
	Name string `yaml:"name" json:"name"`

	// Description is free text shown in command output.
	Description string `yaml:"description" json:"description"`

	// Read lists the paths to read, in the tree.ParsePath syntax.
	Read []string `yaml:"read" json:"read"`

	// Hex marks inputs for this profile as hex-encoded CBOR.
	Hex bool `yaml:"hex" json:"hex"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSONC
	}
}

// Parse decodes a profile from data in the given format.
func Parse(data []byte, format Format) (*Profile, error) {
	var profile Profile
	switch format {
	case YAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing profile: %w", err)
		}
	case JSONC:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&profile); err != nil {
			return nil, fmt.Errorf("parsing profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown profile format %q", format)
	}

	if _, err := profile.Paths(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ReadFile loads a profile from disk, choosing the format from the
// extension.
func ReadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	profile, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if profile.Name == "" {
		base := filepath.Base(path)
		profile.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return profile, nil
}

// Paths parses every entry of Read.
func (p *Profile) Paths() ([]tree.Path, error) {
	paths := make([]tree.Path, 0, len(p.Read))
	for index, text := range p.Read {
		path, err := tree.ParsePath(text)
		if err != nil {
			return nil, fmt.Errorf("read[%d]: %w", index, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
