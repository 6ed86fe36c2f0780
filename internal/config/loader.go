package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"animate-generator/internal/gen"
)

// SchemaVersion is the only config version understood.
const SchemaVersion = "1"

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse parses YAML data into a File. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&f)

	if err := check(&f); err != nil {
		return nil, err
	}

	return &f, nil
}

// Default returns the configuration used when no file exists.
func Default() *File {
	var f File
	applyDefaults(&f)

	return &f
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = SchemaVersion
	}

	if f.Output == "" {
		f.Output = gen.DefaultOutputFile
	}

	if f.Runtime == "" {
		f.Runtime = gen.DefaultRuntimePath
	}
}

// check validates the file on its own, before any package is loaded.
func check(f *File) error {
	var result *multierror.Error

	if f.Version != SchemaVersion {
		result = multierror.Append(result, fmt.Errorf("unsupported config version %q", f.Version))
	}

	seen := make(map[string]bool, len(f.Types))

	for i := range f.Types {
		t := &f.Types[i]
		if t.Name == "" {
			result = multierror.Append(result, fmt.Errorf("types[%d]: name is required", i))
			continue
		}

		if seen[t.ID()] {
			result = multierror.Append(result, fmt.Errorf("types[%d]: duplicate entry for %s", i, t.ID()))
		}

		seen[t.ID()] = true
	}

	return result.ErrorOrNil()
}
