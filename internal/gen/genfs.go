package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ioLimit bounds the number of files read or written at once.
const ioLimit = 12

// GenFS is an in-memory tree of generated files. Write puts it on disk;
// Verify checks that what is on disk is identical, which is how CI notices
// generated code that was not regenerated after its sources changed.
//
// Files cannot be removed once added, and a second file for the same path is
// an error.
type GenFS struct {
	mu    sync.Mutex
	files map[string]fsEntry
}

type fsEntry struct {
	data  []byte
	owner string
}

// NewGenFS creates an empty GenFS.
func NewGenFS() *GenFS {
	return &GenFS{files: make(map[string]fsEntry)}
}

// ToFS collects generated files into a GenFS with paths relative to root.
func ToFS(root string, files []GeneratedFile) (*GenFS, error) {
	fs := NewGenFS()

	var result *multierror.Error

	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path())
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", f.Path(), err))
			continue
		}

		result = multierror.Append(result, fs.Add(f.PkgPath, rel, f.Content))
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return fs, nil
}

// Add adds a file. Conflicting and absolute paths are errors.
func (fs *GenFS) Add(owner, relPath string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var result *multierror.Error

	if prev, ok := fs.files[relPath]; ok {
		result = multierror.Append(result,
			fmt.Errorf("cannot create %s for %q, already created for %q", relPath, owner, prev.owner))
	}

	if filepath.IsAbs(relPath) {
		result = multierror.Append(result,
			fmt.Errorf("generated files must have relative paths, got %s from %q", relPath, owner))
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	fs.files[relPath] = fsEntry{data: data, owner: owner}

	return nil
}

// Len returns the number of files.
func (fs *GenFS) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return len(fs.files)
}

// Paths returns the relative paths of every file, sorted.
func (fs *GenFS) Paths() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make([]string, 0, len(fs.files))
	for _, item := range fs.sorted() {
		out = append(out, item.path)
	}

	return out
}

type fsItem struct {
	path string
	data []byte
}

func (fs *GenFS) sorted() []fsItem {
	out := make([]fsItem, 0, len(fs.files))
	for path, e := range fs.files {
		out = append(out, fsItem{path: path, data: e.data})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].path < out[j].path
	})

	return out
}

// Write writes every file below prefix, creating directories as needed.
func (fs *GenFS) Write(ctx context.Context, prefix string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(ioLimit)

	for _, item := range fs.sorted() {
		eg.Go(func() error {
			path := filepath.Join(prefix, item.path)

			if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
				return fmt.Errorf("%s: creating parent directory: %w", path, err)
			}

			if err := os.WriteFile(path, item.data, filePerm); err != nil {
				return fmt.Errorf("%s: writing file: %w", path, err)
			}

			return nil
		})
	}

	return eg.Wait()
}

// Verify compares every file below prefix with its generated content. Missing
// and stale files are all reported in one aggregated error; I/O failures abort.
func (fs *GenFS) Verify(ctx context.Context, prefix string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(ioLimit)

	var (
		resultMu sync.Mutex
		result   *multierror.Error
	)

	report := func(err error) {
		resultMu.Lock()
		result = multierror.Append(result, err)
		resultMu.Unlock()
	}

	for _, item := range fs.sorted() {
		eg.Go(func() error {
			path := filepath.Join(prefix, item.path)

			current, err := os.ReadFile(path) //nolint:gosec
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					report(fmt.Errorf("%s: generated file should exist, but does not", path))
					return nil
				}

				return fmt.Errorf("%s: reading file: %w", path, err)
			}

			if diff := cmp.Diff(string(current), string(item.data)); diff != "" {
				report(fmt.Errorf("%s would have changed:\n\n%s", path, diff))
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("verifying generated files: %w", err)
	}

	if result != nil {
		sort.Slice(result.Errors, func(i, j int) bool {
			return result.Errors[i].Error() < result.Errors[j].Error()
		})
	}

	return result.ErrorOrNil()
}
