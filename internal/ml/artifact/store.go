// Package artifact persists a fitted pipeline as a single versioned
// msgpack file.
package artifact

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/domain/entity"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/pipeline"
)

// Format identifies an emotion classifier artifact
const Format = "emotion-classifier"

// FormatVersion is bumped whenever the payload layout changes
const FormatVersion uint16 = 1

// envelope wraps the encoded artifact so the version can be checked before
// the payload is decoded.
type envelope struct {
	Format   string `msgpack:"format"`
	Version  uint16 `msgpack:"version"`
	Checksum []byte `msgpack:"checksum"`
	Payload  []byte `msgpack:"payload"`
}

// Save validates and writes a to path. The file is written to a temporary
// name in the same directory and renamed into place, so readers never observe
// a partially written model.
func Save(path string, a *pipeline.Artifact) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid artifact: %w", err)
	}
	payload, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	data, err := msgpack.Marshal(&envelope{
		Format:   Format,
		Version:  FormatVersion,
		Checksum: checksum(payload),
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck // already renamed on success

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads an artifact written by Save. It returns ErrModelNotFound when
// path does not exist, ErrIncompatibleModelVersion when the file was written
// with another format version and ErrModelCorrupt for anything that cannot
// be fully decoded into a consistent artifact. No partial artifact is ever
// returned.
func Load(path string) (*pipeline.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrModelCorrupt, path, err)
	}
	if env.Format != Format {
		return nil, fmt.Errorf("%w: %s: unexpected format %q", entity.ErrModelCorrupt, path, env.Format)
	}
	if env.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %s: version %d, supported %d",
			entity.ErrIncompatibleModelVersion, path, env.Version, FormatVersion)
	}
	if !bytes.Equal(checksum(env.Payload), env.Checksum) {
		return nil, fmt.Errorf("%w: %s: checksum mismatch", entity.ErrModelCorrupt, path)
	}

	a := new(pipeline.Artifact)
	dec := msgpack.NewDecoder(bytes.NewReader(env.Payload))
	dec.DisallowUnknownFields(true)
	if err := dec.Decode(a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrModelCorrupt, path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrModelCorrupt, path, err)
	}
	return a, nil
}

func checksum(payload []byte) []byte {
	sum := sha256.Sum256(payload)
	return sum[:]
}

// FileStore saves and loads artifacts on the local filesystem
type FileStore struct{}

// Save writes a to path
func (FileStore) Save(path string, a *pipeline.Artifact) error {
	return Save(path, a)
}

// Load reads the artifact at path
func (FileStore) Load(path string) (*pipeline.Artifact, error) {
	return Load(path)
}
