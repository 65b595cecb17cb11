package adapters

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

// EventBusInput declares an EventBridge event bus.
type EventBusInput struct {
	Name string            `json:"name" validate:"required"`
	Tags map[string]string `json:"tags,omitempty"`
}

// EventBusOutput is a created event bus's identity.
type EventBusOutput struct {
	Name string `json:"name"`
	Arn  string `json:"arn"`
}

// EventBusAdapter creates and tears down an EventBridge event bus.
// Grounded on original_source/pdep/aws/eventbridge.py's EventBus.
type EventBusAdapter struct {
	Log zerolog.Logger
}

func (EventBusAdapter) ClassTag() string          { return "aws.EventBus" }
func (EventBusAdapter) CreateBeforeDestroy() bool { return false }

func (a EventBusAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in EventBusInput) (EventBusOutput, error) {
	if dry {
		return EventBusOutput{Name: in.Name, Arn: "arn-event-bus-dummy"}, nil
	}

	client, err := provider.EventBridgeClient(p)
	if err != nil {
		return EventBusOutput{}, err
	}
	resp, err := client.CreateEventBus(ctx, &eventbridge.CreateEventBusInput{
		Name: aws.String(in.Name),
		Tags: eventbridgeTags(withApplyUUID(in.Tags, applyUUID)),
	})
	if err != nil {
		return EventBusOutput{}, classifyAWSError(err)
	}

	out := EventBusOutput{Name: in.Name, Arn: aws.ToString(resp.EventBusArn)}
	a.Log.Info().Str("arn", out.Arn).Msg("event bus created")
	return out, nil
}

func (a EventBusAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in EventBusInput, prevOutput EventBusOutput) (EventBusOutput, bool, error) {
	return EventBusOutput{}, false, nil
}

func (a EventBusAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in EventBusInput, out EventBusOutput) (bool, error) {
	if dry {
		return false, nil
	}
	client, err := provider.EventBridgeClient(p)
	if err != nil {
		return false, err
	}
	resp, err := client.DescribeEventBus(ctx, &eventbridge.DescribeEventBusInput{Name: aws.String(out.Name)})
	if err != nil {
		return false, classifyAWSError(err)
	}
	return aws.ToString(resp.Name) != out.Name, nil
}

func (a EventBusAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in EventBusInput, out EventBusOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EventBridgeClient(p)
	if err != nil {
		return err
	}
	_, err = client.DeleteEventBus(ctx, &eventbridge.DeleteEventBusInput{Name: aws.String(out.Name)})
	return classifyAWSError(err)
}

var _ resource.Adapter[EventBusInput, EventBusOutput] = EventBusAdapter{}
