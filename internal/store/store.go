// Package store persists fetched and computed datasets as JSON files wrapped
// in freshness metadata envelopes.
//
// Files are organized into four tiers by update cadence:
//
//	reference/   slow-changing lookup data, long TTLs (~90 days)
//	historical/  periodically refreshed aggregates, TTLs around a day
//	live/        frequently refreshed data, TTLs of hours
//	derived/     computed outputs, no TTL, always rewritten
//
// Every JSON file carries a "valid_until" expiry in its envelope so the fetch
// flow can skip upstream sources that are still fresh. Binary payloads keep
// their native format and get a sidecar ".meta.json" file instead.
//
// The store assumes a single writer per root; concurrent runs against the same
// directory need external mutual exclusion.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Tier directory names under the store root.
const (
	TierReference  = "reference"
	TierHistorical = "historical"
	TierLive       = "live"
	TierDerived    = "derived"
)

// metaSidecarSuffix is appended to a binary file's full name to locate its
// freshness sidecar, e.g. "reference/dem/portland.tif.meta.json".
const metaSidecarSuffix = ".meta.json"

// ErrPathEscapesRoot is returned when a requested path would resolve outside
// the store root. Checked before any file-system access.
var ErrPathEscapesRoot = errors.New("path escapes store root")

// Store mediates file access under a single root directory. It holds no state
// beyond the root path and a time source; construct one per run.
type Store struct {
	base  string
	clock clockwork.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock substitutes the time source used for envelope stamping and
// freshness checks. Tests pass a fake clock for deterministic expiry.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New creates a Store rooted at baseDir. The directory itself is created
// lazily on first write.
func New(baseDir string, opts ...Option) (*Store, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}
	s := &Store{base: abs, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Base returns the absolute store root.
func (s *Store) Base() string {
	return s.base
}

// Read returns the payload of an enveloped JSON file. The second return is
// false when the file does not exist; malformed content is an error, never
// treated as missing.
func (s *Store) Read(rel string) (json.RawMessage, bool, error) {
	env, ok, err := s.ReadRaw(rel)
	if err != nil || !ok {
		return nil, ok, err
	}
	return env.Unwrap(), true, nil
}

// ReadInto reads a payload and unmarshals it into v. Returns false when the
// file does not exist.
func (s *Store) ReadInto(rel string, v any) (bool, error) {
	data, ok, err := s.Read(rel)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("unmarshal %s: %w", rel, err)
	}
	return true, nil
}

// ReadRaw returns the full envelope (meta + data) so callers can inspect
// provenance and freshness. Legacy un-enveloped files come back with the whole
// document as Data and empty Meta.
func (s *Store) ReadRaw(rel string) (Envelope, bool, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return Envelope{}, false, err
	}

	raw, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return Envelope{}, false, nil
	}
	if err != nil {
		return Envelope{}, false, fmt.Errorf("read %s: %w", rel, err)
	}

	env, err := Decode(raw)
	if err != nil {
		return Envelope{}, false, fmt.Errorf("%s: %w", rel, err)
	}
	return env, true, nil
}

// Write stores a payload wrapped in a metadata envelope, creating parent
// directories as needed and overwriting any existing file. A nil validUntil
// marks the file as never fresh (derived data). Returns the absolute path.
func (s *Store) Write(rel string, payload any, source string, validUntil *time.Time, extra map[string]any) (string, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	env, err := Wrap(payload, source, s.clock.Now(), validUntil, extra)
	if err != nil {
		return "", fmt.Errorf("wrap %s: %w", rel, err)
	}

	doc, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal envelope %s: %w", rel, err)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create parent dirs for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, doc, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return full, nil
}

// WriteFile copies an opaque file into the store and records its metadata in
// a ".meta.json" sidecar, leaving the payload in its native format. Returns
// the absolute path of the stored file.
func (s *Store) WriteFile(rel, src, source string, validUntil *time.Time, extra map[string]any) (string, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	payload, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read source file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create parent dirs for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}

	sidecar := sidecarDoc{Meta: Meta{
		Source:     source,
		FetchedAt:  s.clock.Now().UTC(),
		ValidUntil: validUntil,
		Extra:      extra,
	}}
	doc, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sidecar for %s: %w", rel, err)
	}
	if err := os.WriteFile(full+metaSidecarSuffix, doc, 0o644); err != nil {
		return "", fmt.Errorf("write sidecar for %s: %w", rel, err)
	}
	return full, nil
}

// FilePath returns the absolute path of a stored file when it exists, for
// callers that need direct binary access.
func (s *Store) FilePath(rel string) (string, bool, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", rel, err)
	}
	return full, true, nil
}

// IsFresh reports whether a stored file exists and its valid_until has not
// passed. Files without an expiry (including derived outputs and legacy files)
// are never fresh. Metadata is read from the sidecar for binary payloads and
// from the embedded envelope otherwise.
func (s *Store) IsFresh(rel string) (bool, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat %s: %w", rel, err)
	}

	meta, err := s.readMeta(full)
	if err != nil {
		return false, fmt.Errorf("%s: %w", rel, err)
	}
	if meta.ValidUntil == nil {
		return false, nil
	}
	return s.clock.Now().Before(*meta.ValidUntil), nil
}

// resolve joins rel onto the store root and verifies the result stays inside
// it. Absolute paths are accepted as long as they are within the root.
func (s *Store) resolve(rel string) (string, error) {
	full := rel
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.base, rel)
	}
	full = filepath.Clean(full)

	within, err := filepath.Rel(s.base, full)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapesRoot, rel)
	}
	return full, nil
}

// readMeta loads metadata from the sidecar when present, falling back to the
// embedded envelope for JSON files.
func (s *Store) readMeta(full string) (Meta, error) {
	raw, err := os.ReadFile(full + metaSidecarSuffix)
	if err == nil {
		var doc sidecarDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Meta{}, fmt.Errorf("decode sidecar: %w", err)
		}
		return doc.Meta, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Meta{}, fmt.Errorf("read sidecar: %w", err)
	}

	if filepath.Ext(full) == ".json" {
		raw, err := os.ReadFile(full)
		if err != nil {
			return Meta{}, fmt.Errorf("read: %w", err)
		}
		env, err := Decode(raw)
		if err != nil {
			return Meta{}, err
		}
		return env.Meta, nil
	}
	return Meta{}, nil
}

// sidecarDoc is the on-disk shape of a ".meta.json" sidecar: metadata only,
// no data key.
type sidecarDoc struct {
	Meta Meta `json:"meta"`
}
