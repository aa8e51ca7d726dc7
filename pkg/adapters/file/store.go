package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/schema"
)

// DefaultDir is used when no directory is given.
var DefaultDir = filepath.Join(".regfsm", "results")

// Store implements ports.ResultStore using the local filesystem.
// Each result is one document named <id>.json or <id>.yaml.
type Store struct {
	BasePath string
	Format   schema.Format
}

// NewStore creates a Store writing format documents under basePath.
// An empty basePath means DefaultDir; an empty format means JSON.
func NewStore(basePath string, format schema.Format) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	if format == "" {
		format = schema.FormatJSON
	}
	return &Store{BasePath: basePath, Format: format}
}

func (f *Store) path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("result ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid result ID %q", id)
	}
	return filepath.Join(f.BasePath, id+"."+string(f.Format)), nil
}

// Save writes the result to a temporary file and renames it into place.
func (f *Store) Save(ctx context.Context, r *domain.Result) error {
	path, err := f.path(r.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure result directory: %w", err)
	}

	data, err := schema.EncodeResult(r, f.Format)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.BasePath, "."+r.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write result file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}

// Load reads and validates a result file.
func (f *Store) Load(ctx context.Context, id string) (*domain.Result, error) {
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	r, err := schema.DecodeResult(data, f.Format)
	if err != nil {
		return nil, fmt.Errorf("result %s: %w", id, err)
	}
	return r, nil
}

// Delete removes the result file.
func (f *Store) Delete(ctx context.Context, id string) error {
	path, err := f.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrResultNotFound
		}
		return fmt.Errorf("failed to delete result file: %w", err)
	}
	return nil
}

// List returns the IDs of every result file, newest first. Only the
// creation time of each document is decoded.
func (f *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	type item struct {
		id      string
		created time.Time
	}
	ext := "." + string(f.Format)
	var items []item
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.BasePath, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read result file: %w", err)
		}
		var header struct {
			CreatedAt time.Time `json:"created_at" yaml:"created_at"`
		}
		if err := schema.Unmarshal(data, &header, f.Format); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		items = append(items, item{id: strings.TrimSuffix(name, ext), created: header.CreatedAt})
	}

	slices.SortFunc(items, func(a, b item) int {
		if c := b.created.Compare(a.created); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}
