package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes one WASM-compiled resource adapter: the class tag it
// registers under, its replace policy, where to find the compiled module,
// and the capabilities it needs from the host. Grounded on
// pkg/providers/host's Manifest/ProviderManifest, flattened into a single
// YAML-decoded struct since a pdep adapter manifest has no per-resource-type
// schema map to carry (one manifest describes exactly one adapter class).
type Manifest struct {
	ClassTag            string   `yaml:"class_tag"`
	CreateBeforeDestroy bool     `yaml:"create_before_destroy"`
	Entrypoint          string   `yaml:"entrypoint"`
	Checksum            string   `yaml:"checksum,omitempty"`
	Capabilities        []string `yaml:"capabilities,omitempty"`
	Author              string   `yaml:"author,omitempty"`
	Version             string   `yaml:"version,omitempty"`

	// wasmPath is Entrypoint resolved to an absolute path relative to the
	// manifest file, filled in by LoadManifest.
	wasmPath string
}

// LoadManifest reads and validates a manifest from path, resolving
// Entrypoint relative to the manifest's own directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest yaml: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	if filepath.IsAbs(m.Entrypoint) {
		m.wasmPath = m.Entrypoint
	} else {
		m.wasmPath = filepath.Join(filepath.Dir(path), m.Entrypoint)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.ClassTag == "" {
		return fmt.Errorf("registry manifest: class_tag is required")
	}
	if m.Entrypoint == "" {
		return fmt.Errorf("registry manifest: entrypoint is required")
	}
	return nil
}

// WasmPath returns the resolved path to the compiled module.
func (m *Manifest) WasmPath() string { return m.wasmPath }

// VerifyChecksum confirms module's sha256 matches the manifest's declared
// Checksum. A manifest with no Checksum is treated as unverifiable, not
// an error: not every locally-built WASM module ships a pinned checksum.
func (m *Manifest) VerifyChecksum(module []byte) error {
	if m.Checksum == "" {
		return nil
	}
	sum := sha256.Sum256(module)
	got := hex.EncodeToString(sum[:])
	if got != m.Checksum {
		return fmt.Errorf("registry manifest: checksum mismatch for %s: want %s, got %s", m.ClassTag, m.Checksum, got)
	}
	return nil
}
