package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Append when the id is already stored.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Record is anything the JSON store can persist.
type Record interface {
	RecordID() string
}

// JSONStore keeps one record kind as a pretty-printed JSON array in a single
// file, newest first. Every read-modify-write cycle holds the store mutex, so
// concurrent requests in one process never lose updates.
type JSONStore[T Record] struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewJSONStore builds a store for path. The file and its directory are created
// lazily on first write.
func NewJSONStore[T Record](path string, logger *zap.Logger) *JSONStore[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStore[T]{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *JSONStore[T]) Path() string {
	return s.path
}

// ReadAll returns every stored record. A missing or unparsable file yields an
// empty collection rather than an error.
func (s *JSONStore[T]) ReadAll(_ context.Context) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// WriteAll replaces the file content with records.
func (s *JSONStore[T]) WriteAll(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(records)
}

// Append inserts rec at the front of the collection.
func (s *JSONStore[T]) Append(ctx context.Context, rec T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	for _, existing := range records {
		if existing.RecordID() == rec.RecordID() {
			return ErrDuplicateID
		}
	}
	records = append([]T{rec}, records...)
	return s.writeLocked(records)
}

// Update applies fn to the first record whose id matches and persists the
// result. The file is not touched when nothing matches.
func (s *JSONStore[T]) Update(ctx context.Context, id string, fn func(*T)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	idx := indexOf(records, id)
	if idx < 0 {
		return zero, ErrNotFound
	}
	fn(&records[idx])
	if err := s.writeLocked(records); err != nil {
		return zero, err
	}
	return records[idx], nil
}

// Delete removes the first record whose id matches and returns it.
func (s *JSONStore[T]) Delete(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	idx := indexOf(records, id)
	if idx < 0 {
		return zero, ErrNotFound
	}
	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)
	if err := s.writeLocked(records); err != nil {
		return zero, err
	}
	return removed, nil
}

func (s *JSONStore[T]) readLocked() []T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("record store unreadable; treating as empty", zap.String("path", s.path), zap.Error(err))
		}
		return []T{}
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("record store corrupt; treating as empty", zap.String("path", s.path), zap.Error(err))
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

func (s *JSONStore[T]) writeLocked(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// encodeRecords renders records with two-space indentation and no trailing
// newline or HTML escaping.
func encodeRecords[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func indexOf[T Record](records []T, id string) int {
	for i := range records {
		if records[i].RecordID() == id {
			return i
		}
	}
	return -1
}
