package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	waveformFile = "waveform.json"
	spectrumFile = "spectrum.json"
)

// FileStore keeps the waveform and spectrum as JSON documents in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) SaveWaveform(ctx context.Context, rec *WaveformRecord) error {
	return f.write(ctx, waveformFile, rec)
}

func (f *FileStore) LoadWaveform(ctx context.Context) (*WaveformRecord, error) {
	var rec WaveformRecord
	found, err := f.read(ctx, waveformFile, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (f *FileStore) SaveSpectrum(ctx context.Context, rec *SpectrumRecord) error {
	return f.write(ctx, spectrumFile, rec)
}

func (f *FileStore) LoadSpectrum(ctx context.Context) (*SpectrumRecord, error) {
	var rec SpectrumRecord
	found, err := f.read(ctx, spectrumFile, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// write replaces name atomically through a temp file in the same directory.
func (f *FileStore) write(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) read(ctx context.Context, name string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}
