package registry

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Registry caches the Hosts loaded for WASM adapter manifests, keyed by
// class tag, so repeated Plan construction within one process re-uses a
// single wazero runtime per adapter rather than re-compiling its module on
// every resource.Base.Apply. Grounded on pkg/providers/host's Registry,
// stripped of the semver name@version resolution that package performed: a
// pdep adapter manifest names exactly one class tag, not a versioned
// package family.
type Registry struct {
	mu    sync.Mutex
	cfg   *HostConfig
	hosts map[string]*Host
}

// New constructs an empty Registry. cfg is applied to every Host it opens;
// pass nil for defaults.
func New(cfg *HostConfig) *Registry {
	return &Registry{cfg: cfg, hosts: make(map[string]*Host)}
}

// Open loads the manifest at manifestPath and its referenced WASM module,
// returning the running Host for its class tag. A manifest already opened
// under the same class tag returns the cached Host instead of
// re-instantiating its runtime.
func (r *Registry) Open(ctx context.Context, manifestPath string) (*Host, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.hosts[manifest.ClassTag]; ok {
		return h, nil
	}

	module, err := os.ReadFile(manifest.WasmPath())
	if err != nil {
		return nil, fmt.Errorf("registry: read wasm module for %s: %w", manifest.ClassTag, err)
	}

	h, err := NewHost(ctx, manifest, module, r.cfg)
	if err != nil {
		return nil, err
	}
	r.hosts[manifest.ClassTag] = h
	return h, nil
}

// Get returns the already-open Host for classTag, if any.
func (r *Registry) Get(classTag string) (*Host, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hosts[classTag]
	return h, ok
}

// Close tears down every Host this Registry opened.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for tag, h := range r.hosts {
		if err := h.Close(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("registry: close host %s: %w", tag, err)
		}
	}
	r.hosts = make(map[string]*Host)
	return firstErr
}
