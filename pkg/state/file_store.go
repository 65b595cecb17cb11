package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// document is the on-disk shape of the reference file backend: a single
// JSON document mapping uuid -> envelope, plus a "to_destroy" array. See
// the envelope type for the exact wire format.
type document struct {
	Envelopes map[string]*Envelope `json:"-"`
	ToDestroy []*Envelope          `json:"to_destroy"`
}

func (d document) MarshalJSON() ([]byte, error) {
	raw := make(map[string]json.RawMessage, len(d.Envelopes)+1)
	for id, env := range d.Envelopes {
		b, err := json.Marshal(env)
		if err != nil {
			return nil, err
		}
		raw[id] = b
	}
	destroy, err := json.Marshal(d.ToDestroy)
	if err != nil {
		return nil, err
	}
	raw["to_destroy"] = destroy
	return json.Marshal(raw)
}

func (d *document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Envelopes = make(map[string]*Envelope)
	for k, v := range raw {
		if k == "to_destroy" {
			if err := json.Unmarshal(v, &d.ToDestroy); err != nil {
				return err
			}
			continue
		}
		var env Envelope
		if err := json.Unmarshal(v, &env); err != nil {
			return err
		}
		d.Envelopes[k] = &env
	}
	return nil
}

// FileStore is the reference StateStore backend: a single JSON document
// rewritten atomically on every mutation. Grounded on
// original_source/pdep/plan.py's FileResourceManager.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu  sync.Mutex
	doc document
}

// NewFileStore opens (or initializes) the single-document state file at
// path.
func NewFileStore(path string, log zerolog.Logger) (*FileStore, error) {
	fs := &FileStore{path: path, log: log.With().Str("component", "state.file").Logger()}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileStore) load() error {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		f.doc = document{Envelopes: make(map[string]*Envelope)}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read state file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse state file: %w", err)
	}
	if doc.Envelopes == nil {
		doc.Envelopes = make(map[string]*Envelope)
	}
	f.doc = doc
	return nil
}

// persist rewrites the whole document to a temp file and renames it over
// the target path, so a crash mid-write never corrupts the previous
// durable state.
func (f *FileStore) persist() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state file: %w", err)
	}
	dir := filepath.Dir(f.path)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp state file: %w", err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, id uuid.UUID, fromPending bool) (*Envelope, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fromPending {
		for _, env := range f.doc.ToDestroy {
			if env.UUID == id {
				return env.Clone(), true, nil
			}
		}
		return nil, false, nil
	}
	env, ok := f.doc.Envelopes[id.String()]
	if !ok {
		return nil, false, nil
	}
	return env.Clone(), true, nil
}

func (f *FileStore) Put(_ context.Context, env *Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.Envelopes[env.UUID.String()] = env.Clone()
	if err := f.persist(); err != nil {
		return err
	}
	f.log.Debug().Str("uuid", env.UUID.String()).Msg("envelope persisted")
	return nil
}

func (f *FileStore) Delete(_ context.Context, id uuid.UUID, fromPending bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fromPending {
		out := f.doc.ToDestroy[:0]
		for _, env := range f.doc.ToDestroy {
			if env.UUID != id {
				out = append(out, env)
			}
		}
		f.doc.ToDestroy = out
	} else {
		delete(f.doc.Envelopes, id.String())
	}
	return f.persist()
}

func (f *FileStore) MarkDestroy(_ context.Context, env *Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doc.ToDestroy = append(f.doc.ToDestroy, env.Clone())
	f.log.Debug().Str("uuid", env.UUID.String()).Msg("envelope marked for deferred destroy")
	return f.persist()
}

func (f *FileStore) ListPendingDestroy(_ context.Context) ([]*Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*Envelope, len(f.doc.ToDestroy))
	for i, env := range f.doc.ToDestroy {
		out[i] = env.Clone()
	}
	return out, nil
}

var _ Store = (*FileStore)(nil)
