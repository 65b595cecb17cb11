package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// HostConfig tunes the sandbox a Host runs its WASM module under, trimmed
// of the remote-execution dispatch path a provider host would otherwise
// carry alongside its sandbox settings.
type HostConfig struct {
	Timeout          time.Duration
	MemoryLimitPages uint32
	TempDir          string
}

func (c *HostConfig) withDefaults() *HostConfig {
	if c == nil {
		c = &HostConfig{}
	}
	out := *c
	if out.Timeout == 0 {
		out.Timeout = 30 * time.Second
	}
	if out.MemoryLimitPages == 0 {
		out.MemoryLimitPages = 256 // 16MB
	}
	if out.TempDir == "" {
		out.TempDir = os.TempDir()
	}
	return &out
}

// createRequest/createResponse and friends are the JSON envelopes exchanged
// with the hosted module across the bridge. applyUUID and dry travel
// alongside the typed input/output exactly as resource.Adapter's own
// signatures carry them, so a sandboxed adapter sees the same contract a
// native pkg/adapters implementation does.
type createRequest struct {
	ApplyUUID uuid.UUID       `json:"apply_uuid"`
	Dry       bool            `json:"dry"`
	Input     json.RawMessage `json:"input"`
}

type updateRequest struct {
	ApplyUUID  uuid.UUID       `json:"apply_uuid"`
	Dry        bool            `json:"dry"`
	PrevInput  json.RawMessage `json:"prev_input"`
	Input      json.RawMessage `json:"input"`
	PrevOutput json.RawMessage `json:"prev_output"`
}

type updateResponse struct {
	Output json.RawMessage `json:"output"`
	OK     bool            `json:"ok"`
}

type driftRequest struct {
	Dry    bool            `json:"dry"`
	Input  json.RawMessage `json:"input"`
	Output json.RawMessage `json:"output"`
}

type driftResponse struct {
	Drifted bool `json:"drifted"`
}

type destroyRequest struct {
	ApplyUUID uuid.UUID       `json:"apply_uuid"`
	Dry       bool            `json:"dry"`
	PrevInput json.RawMessage `json:"prev_input"`
	Output    json.RawMessage `json:"output"`
}

// Host runs one WASM module hosting one adapter class, inside its own
// wazero runtime. Grounded on pkg/providers/host's WASMHostProvider, pared
// down to the four operations this engine's resource.Adapter needs.
type Host struct {
	manifest *Manifest
	runtime  wazero.Runtime
	module   api.Module
	bridge   *bridge
	enforcer *capabilityEnforcer
	timeout  time.Duration
}

// NewHost compiles and instantiates wasmModule under manifest's declared
// capabilities, registering the host functions a sandboxed adapter may
// call (net:outbound, fs:temp) gated by capabilityEnforcer.
func NewHost(ctx context.Context, manifest *Manifest, wasmModule []byte, cfg *HostConfig) (*Host, error) {
	cfg = cfg.withDefaults()

	if err := manifest.VerifyChecksum(wasmModule); err != nil {
		return nil, err
	}

	enforcer := newCapabilityEnforcer(manifest.Capabilities, cfg.TempDir)

	runtimeConfig := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(cfg.MemoryLimitPages).
		WithCloseOnContextDone(true)
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("registry: instantiate WASI: %w", err)
	}

	builder := runtime.NewHostModuleBuilder("env")
	registerHostFunctions(builder, enforcer)
	if _, err := builder.Instantiate(ctx); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("registry: instantiate host module: %w", err)
	}

	module, err := runtime.Instantiate(ctx, wasmModule)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("registry: instantiate adapter module for %s: %w", manifest.ClassTag, err)
	}

	br, err := newBridge(module)
	if err != nil {
		module.Close(ctx)
		runtime.Close(ctx)
		return nil, err
	}

	return &Host{manifest: manifest, runtime: runtime, module: module, bridge: br, enforcer: enforcer, timeout: cfg.Timeout}, nil
}

// registerHostFunctions exports the host-side functions a sandboxed
// adapter calls into: an HTTP request for net:outbound, and temp-file
// read/write for fs:temp. Grounded on pkg/providers/host's
// registerHostFunctions, dropped down to the two capabilities this engine
// actually grants.
func registerHostFunctions(builder wazero.HostModuleBuilder, enforcer *capabilityEnforcer) {
	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, urlPtr, urlLen, methodPtr, methodLen uint32) uint32 {
			urlBytes, ok1 := mod.Memory().Read(urlPtr, urlLen)
			methodBytes, ok2 := mod.Memory().Read(methodPtr, methodLen)
			if !ok1 || !ok2 {
				return 1
			}
			resp, err := enforcer.httpRequest(ctx, string(methodBytes), string(urlBytes), nil)
			if err != nil {
				return 1
			}
			defer resp.Body.Close()
			return uint32(resp.StatusCode)
		}).
		Export("http_request")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, namePtr, nameLen, dataPtr, dataLen uint32) uint32 {
			nameBytes, ok1 := mod.Memory().Read(namePtr, nameLen)
			dataBytes, ok2 := mod.Memory().Read(dataPtr, dataLen)
			if !ok1 || !ok2 {
				return 1
			}
			if err := enforcer.writeTempFile(string(nameBytes), dataBytes); err != nil {
				return 1
			}
			return 0
		}).
		Export("write_temp_file")

	builder.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, namePtr, nameLen uint32) uint32 {
			nameBytes, ok := mod.Memory().Read(namePtr, nameLen)
			if !ok {
				return 1
			}
			if _, err := enforcer.readTempFile(string(nameBytes)); err != nil {
				return 1
			}
			return 0
		}).
		Export("read_temp_file")
}

func (h *Host) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.timeout)
}

// Create calls the hosted module's adapter_create export.
func (h *Host) Create(ctx context.Context, applyUUID uuid.UUID, dry bool, input json.RawMessage) (json.RawMessage, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	reqJSON, err := json.Marshal(createRequest{ApplyUUID: applyUUID, Dry: dry, Input: input})
	if err != nil {
		return nil, err
	}
	return h.bridge.call(ctx, opCreate, reqJSON)
}

// Update calls the hosted module's adapter_update export.
func (h *Host) Update(ctx context.Context, applyUUID uuid.UUID, dry bool, prevInput, input, prevOutput json.RawMessage) (output json.RawMessage, ok bool, err error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	reqJSON, err := json.Marshal(updateRequest{ApplyUUID: applyUUID, Dry: dry, PrevInput: prevInput, Input: input, PrevOutput: prevOutput})
	if err != nil {
		return nil, false, err
	}
	respJSON, err := h.bridge.call(ctx, opUpdate, reqJSON)
	if err != nil {
		return nil, false, err
	}
	var resp updateResponse
	if err := json.Unmarshal(respJSON, &resp); err != nil {
		return nil, false, fmt.Errorf("registry: decode adapter_update response: %w", err)
	}
	return resp.Output, resp.OK, nil
}

// IsDrifted calls the hosted module's adapter_is_drifted export.
func (h *Host) IsDrifted(ctx context.Context, dry bool, input, output json.RawMessage) (bool, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	reqJSON, err := json.Marshal(driftRequest{Dry: dry, Input: input, Output: output})
	if err != nil {
		return false, err
	}
	respJSON, err := h.bridge.call(ctx, opIsDrifted, reqJSON)
	if err != nil {
		return false, err
	}
	var resp driftResponse
	if err := json.Unmarshal(respJSON, &resp); err != nil {
		return false, fmt.Errorf("registry: decode adapter_is_drifted response: %w", err)
	}
	return resp.Drifted, nil
}

// Destroy calls the hosted module's adapter_destroy export.
func (h *Host) Destroy(ctx context.Context, applyUUID uuid.UUID, dry bool, prevInput, output json.RawMessage) error {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	reqJSON, err := json.Marshal(destroyRequest{ApplyUUID: applyUUID, Dry: dry, PrevInput: prevInput, Output: output})
	if err != nil {
		return err
	}
	_, err = h.bridge.call(ctx, opDestroy, reqJSON)
	return err
}

// ClassTag is the manifest's declared class tag.
func (h *Host) ClassTag() string { return h.manifest.ClassTag }

// CreateBeforeDestroy is the manifest's declared replace policy.
func (h *Host) CreateBeforeDestroy() bool { return h.manifest.CreateBeforeDestroy }

// Close releases the module, runtime, and any scratch files this host's
// capability enforcer wrote.
func (h *Host) Close(ctx context.Context) error {
	_ = h.enforcer.cleanup()
	if h.module != nil {
		if err := h.module.Close(ctx); err != nil {
			return fmt.Errorf("registry: close module: %w", err)
		}
	}
	if h.runtime != nil {
		if err := h.runtime.Close(ctx); err != nil {
			return fmt.Errorf("registry: close runtime: %w", err)
		}
	}
	return nil
}
