package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/resource"
	"github.com/amirhadar/pdep-go/pkg/state"
)

// WasmAdapter implements resource.Adapter[In, Out] by marshaling In/Out to
// JSON and calling through to a Host's four exported operations, so a
// resource class compiled and shipped as a separate WASM module plugs into
// the engine exactly like a native pkg/adapters type. The Provider argument
// every resource.Adapter method receives is unused here: a sandboxed
// adapter reaches the outside world only through the capabilities its
// manifest was granted (net:outbound, fs:temp), never through this
// process's own provider clients.
type WasmAdapter[In any, Out any] struct {
	host *Host
}

// NewAdapter wraps an already-open Host as a typed resource.Adapter.
func NewAdapter[In any, Out any](host *Host) *WasmAdapter[In, Out] {
	return &WasmAdapter[In, Out]{host: host}
}

func (a *WasmAdapter[In, Out]) ClassTag() string          { return a.host.ClassTag() }
func (a *WasmAdapter[In, Out]) CreateBeforeDestroy() bool { return a.host.CreateBeforeDestroy() }

func (a *WasmAdapter[In, Out]) Create(ctx context.Context, _ resource.Provider, applyUUID uuid.UUID, dry bool, input In) (Out, error) {
	var zero Out
	inJSON, err := json.Marshal(input)
	if err != nil {
		return zero, err
	}
	outJSON, err := a.host.Create(ctx, applyUUID, dry, inJSON)
	if err != nil {
		return zero, err
	}
	var out Out
	if err := json.Unmarshal(outJSON, &out); err != nil {
		return zero, fmt.Errorf("registry: decode %s create output: %w", a.ClassTag(), err)
	}
	return out, nil
}

func (a *WasmAdapter[In, Out]) Update(ctx context.Context, _ resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, input In, prevOutput Out) (Out, bool, error) {
	var zero Out
	prevInJSON, err := json.Marshal(prevInput)
	if err != nil {
		return zero, false, err
	}
	inJSON, err := json.Marshal(input)
	if err != nil {
		return zero, false, err
	}
	prevOutJSON, err := json.Marshal(prevOutput)
	if err != nil {
		return zero, false, err
	}
	outJSON, ok, err := a.host.Update(ctx, applyUUID, dry, prevInJSON, inJSON, prevOutJSON)
	if err != nil {
		return zero, false, err
	}
	if !ok {
		return zero, false, nil
	}
	var out Out
	if err := json.Unmarshal(outJSON, &out); err != nil {
		return zero, false, fmt.Errorf("registry: decode %s update output: %w", a.ClassTag(), err)
	}
	return out, true, nil
}

func (a *WasmAdapter[In, Out]) IsDrifted(ctx context.Context, _ resource.Provider, dry bool, input In, output Out) (bool, error) {
	inJSON, err := json.Marshal(input)
	if err != nil {
		return false, err
	}
	outJSON, err := json.Marshal(output)
	if err != nil {
		return false, err
	}
	return a.host.IsDrifted(ctx, dry, inJSON, outJSON)
}

func (a *WasmAdapter[In, Out]) Destroy(ctx context.Context, _ resource.Provider, applyUUID uuid.UUID, dry bool, prevInput In, output Out) error {
	prevInJSON, err := json.Marshal(prevInput)
	if err != nil {
		return err
	}
	outJSON, err := json.Marshal(output)
	if err != nil {
		return err
	}
	return a.host.Destroy(ctx, applyUUID, dry, prevInJSON, outJSON)
}

var _ resource.Adapter[struct{}, struct{}] = (*WasmAdapter[struct{}, struct{}])(nil)

// RegisterClass wires a WasmAdapter into resource.RegisterClass so a
// pending-destroy drain can reconstruct a Node for this class without
// re-opening its manifest, matching pkg/adapters.RegisterAdapterClass's
// pattern for native adapters.
func RegisterClass[In any, Out any](host *Host) {
	adapter := NewAdapter[In, Out](host)
	resource.RegisterClass(host.ClassTag(), func(env *state.Envelope) (resource.Node, error) {
		var zero In
		b := resource.New[In, Out](adapter, zero, zerolog.Nop())
		b.SetUUID(env.UUID)
		return b, nil
	})
}
