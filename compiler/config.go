/**
 * Copyright (c) 2026, The Selene Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config describes a selene project. It is usually loaded from a selene.config.yaml or
// selene.config.json next to the project sources.
type Config struct {
	// Schema is the path of the GraphQL SDL file describing the server schema.
	Schema string `json:"schema" yaml:"schema"`

	// Documents are glob patterns matching the executable documents of the project.
	Documents []string `json:"documents" yaml:"documents"`

	// ArtifactDirectory is the directory generated artifacts are written into.
	ArtifactDirectory string `json:"artifactDirectory" yaml:"artifactDirectory"`

	// Workers caps the number of artifacts rendered concurrently. 0 picks a value from the
	// number of CPUs.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// LoadConfig reads and validates the config file at the given path. The format follows the
// file extension. Relative paths in the config are taken relative to the directory containing
// the config file, so a build started from anywhere in the project tree sees the same files.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q (want .json, .yaml or .yml)", path, ext)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	config.Schema = resolvePath(base, config.Schema)
	for i, pattern := range config.Documents {
		config.Documents[i] = resolvePath(base, pattern)
	}
	config.ArtifactDirectory = resolvePath(base, config.ArtifactDirectory)
	return &config, nil
}

// Validate reports the first problem that makes the config unusable.
func (config *Config) Validate() error {
	if config.Schema == "" {
		return errors.New("config: schema is required")
	}
	if len(config.Documents) == 0 {
		return errors.New("config: documents must list at least one pattern")
	}
	if config.ArtifactDirectory == "" {
		return errors.New("config: artifactDirectory is required")
	}
	if config.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative (got %d)", config.Workers)
	}
	return nil
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
