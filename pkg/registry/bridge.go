package registry

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// operation names the four WASM exports a hosted adapter module must
// provide. Narrowed from pkg/providers/host's eight provider functions
// (init/read/plan/apply/destroy/validate/schema/metadata) to exactly the
// resource.Adapter surface; ClassTag and
// CreateBeforeDestroy live in the manifest instead, since the engine needs
// both before it ever calls into the module.
type operation string

const (
	opCreate     operation = "adapter_create"
	opUpdate     operation = "adapter_update"
	opIsDrifted  operation = "adapter_is_drifted"
	opDestroy    operation = "adapter_destroy"
)

// bridge calls a hosted adapter module's exported functions with
// length-prefixed JSON over WASM linear memory, matching
// pkg/providers/host's WASMBridge calling convention: fn(ptr, len) ->
// (ptr<<32 | len), with malloc/free exported by the module for the host to
// stage its request bytes and the module to stage its response bytes.
type bridge struct {
	module api.Module
	memory api.Memory
	malloc api.Function
	free   api.Function
	fns    map[operation]api.Function
}

func newBridge(module api.Module) (*bridge, error) {
	memory := module.Memory()
	if memory == nil {
		return nil, fmt.Errorf("registry: module does not export memory")
	}
	malloc := module.ExportedFunction("malloc")
	free := module.ExportedFunction("free")
	if malloc == nil || free == nil {
		return nil, fmt.Errorf("registry: module must export malloc and free")
	}

	fns := make(map[operation]api.Function, 4)
	for _, op := range []operation{opCreate, opUpdate, opIsDrifted, opDestroy} {
		fn := module.ExportedFunction(string(op))
		if fn == nil {
			return nil, fmt.Errorf("registry: module does not export %s", op)
		}
		fns[op] = fn
	}

	return &bridge{module: module, memory: memory, malloc: malloc, free: free, fns: fns}, nil
}

// call invokes op with reqJSON and returns the module's JSON response.
func (b *bridge) call(ctx context.Context, op operation, reqJSON []byte) ([]byte, error) {
	var ptr, length uint32
	if len(reqJSON) > 0 {
		var err error
		ptr, err = b.alloc(ctx, uint32(len(reqJSON)))
		if err != nil {
			return nil, err
		}
		defer b.dealloc(ctx, ptr)
		length = uint32(len(reqJSON))
		if !b.memory.Write(ptr, reqJSON) {
			return nil, fmt.Errorf("registry: failed writing %s request to module memory", op)
		}
	}

	results, err := b.fns[op].Call(ctx, uint64(ptr), uint64(length))
	if err != nil {
		return nil, fmt.Errorf("registry: %s call failed: %w", op, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("registry: %s returned no result", op)
	}

	packed := results[0]
	outPtr := uint32(packed >> 32)
	outLen := uint32(packed & 0xffffffff)
	if outLen == 0 {
		return []byte("{}"), nil
	}
	out, ok := b.memory.Read(outPtr, outLen)
	if !ok {
		return nil, fmt.Errorf("registry: failed reading %s response from module memory", op)
	}
	// Copy before freeing: the module may reuse outPtr once dealloc runs.
	resp := append([]byte(nil), out...)
	b.dealloc(ctx, outPtr)
	return resp, nil
}

func (b *bridge) alloc(ctx context.Context, size uint32) (uint32, error) {
	results, err := b.malloc.Call(ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("registry: malloc failed: %w", err)
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("registry: malloc returned null pointer")
	}
	return ptr, nil
}

func (b *bridge) dealloc(ctx context.Context, ptr uint32) {
	_, _ = b.free.Call(ctx, uint64(ptr))
}
