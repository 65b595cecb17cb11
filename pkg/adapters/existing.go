package adapters

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/resource"
)

// Existing wraps an already-existing external object in the resource
// lifecycle contract: its Create is a read-only discovery rather than a
// remote mutation, and its Destroy is a no-op since this engine never owns
// the object's lifetime. Grounded on
// original_source/pdep/aws/backbones/net/simplenetbb.py's DefaultVpc()
// construction, generalized from that one AWS-specific case into a
// reusable wrapper for any In/Out pair.
//
// Discover is called in place of a create call; it is expected to look the
// object up (e.g. describe the AWS account's default VPC) and return its
// Out representation. Drifted reports whether the looked-up object no
// longer matches what was last recorded; a nil Drifted always reports false.
type Existing[In any, Out any] struct {
	Tag       string
	Discover  func(ctx context.Context, p resource.Provider, in In) (Out, error)
	Drifted   func(ctx context.Context, p resource.Provider, in In, out Out) (bool, error)
	Log       zerolog.Logger
}

func (e Existing[In, Out]) ClassTag() string          { return e.Tag }
func (e Existing[In, Out]) CreateBeforeDestroy() bool { return false }

func (e Existing[In, Out]) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in In) (Out, error) {
	out, err := e.Discover(ctx, p, in)
	if err == nil {
		e.Log.Info().Str("class_tag", e.Tag).Msg("existing resource discovered")
	}
	return out, err
}

func (e Existing[In, Out]) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in In, prevOutput Out) (Out, bool, error) {
	var zero Out
	return zero, false, nil
}

func (e Existing[In, Out]) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in In, out Out) (bool, error) {
	if e.Drifted == nil {
		return false, nil
	}
	return e.Drifted(ctx, p, in, out)
}

func (e Existing[In, Out]) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in In, out Out) error {
	return nil
}

var _ resource.Adapter[struct{}, struct{}] = Existing[struct{}, struct{}]{}
