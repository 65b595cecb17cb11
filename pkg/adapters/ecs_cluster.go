package adapters

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

const (
	ecsClusterWaitTimeout  = 30 * time.Second
	ecsClusterWaitInterval = 2 * time.Second
)

// EcsClusterInput declares an ECS cluster.
type EcsClusterInput struct {
	Name string            `json:"name" validate:"required"`
	Tags map[string]string `json:"tags,omitempty"`
}

// EcsClusterOutput is a created cluster's identity.
type EcsClusterOutput struct {
	Name  string `json:"name"`
	Arn   string `json:"arn"`
	State string `json:"state"`
}

// EcsClusterAdapter creates and tears down an ECS cluster, polling until
// ACTIVE. Grounded on original_source/pdep/aws/ecs.py's EcsCluster, whose
// do_with_timeout poll becomes resource.WaitWithTimeout here.
type EcsClusterAdapter struct {
	Log zerolog.Logger
}

func (EcsClusterAdapter) ClassTag() string          { return "aws.EcsCluster" }
func (EcsClusterAdapter) CreateBeforeDestroy() bool { return false }

func (a EcsClusterAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in EcsClusterInput) (EcsClusterOutput, error) {
	if dry {
		return EcsClusterOutput{Name: in.Name, Arn: "arn-cluster-dummy", State: "ACTIVE"}, nil
	}

	client, err := provider.ECSClient(p)
	if err != nil {
		return EcsClusterOutput{}, err
	}
	resp, err := client.CreateCluster(ctx, &ecs.CreateClusterInput{ClusterName: aws.String(in.Name)})
	if err != nil {
		return EcsClusterOutput{}, classifyAWSError(err)
	}
	arn := aws.ToString(resp.Cluster.ClusterArn)

	if _, err := client.TagResource(ctx, &ecs.TagResourceInput{
		ResourceArn: aws.String(arn),
		Tags:        ecsTags(withApplyUUID(in.Tags, applyUUID)),
	}); err != nil {
		return EcsClusterOutput{}, classifyAWSError(err)
	}

	out := EcsClusterOutput{Name: aws.ToString(resp.Cluster.ClusterName), Arn: arn}
	err = resource.WaitWithTimeout(ctx, ecsClusterWaitTimeout, ecsClusterWaitInterval, func(ctx context.Context) (bool, error) {
		status, derr := a.describeStatus(ctx, client, arn)
		if derr != nil {
			return false, derr
		}
		out.State = status
		return status == "ACTIVE", nil
	})
	if err != nil {
		return EcsClusterOutput{}, err
	}

	a.Log.Info().Str("arn", arn).Msg("ecs cluster created")
	return out, nil
}

func (a EcsClusterAdapter) describeStatus(ctx context.Context, client *ecs.Client, arn string) (string, error) {
	resp, err := client.DescribeClusters(ctx, &ecs.DescribeClustersInput{Clusters: []string{arn}})
	if err != nil {
		return "", classifyAWSError(err)
	}
	if len(resp.Clusters) == 0 {
		return "", perrors.NewNotFound("ecs cluster %s no longer exists", arn).WithResource(arn)
	}
	return string(resp.Clusters[0].Status), nil
}

func (a EcsClusterAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in EcsClusterInput, prevOutput EcsClusterOutput) (EcsClusterOutput, bool, error) {
	return EcsClusterOutput{}, false, nil
}

func (a EcsClusterAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in EcsClusterInput, out EcsClusterOutput) (bool, error) {
	if dry {
		return false, nil
	}
	client, err := provider.ECSClient(p)
	if err != nil {
		return false, err
	}
	status, err := a.describeStatus(ctx, client, out.Arn)
	if err != nil {
		return false, err
	}
	return status != "ACTIVE", nil
}

func (a EcsClusterAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in EcsClusterInput, out EcsClusterOutput) error {
	if dry {
		return nil
	}
	client, err := provider.ECSClient(p)
	if err != nil {
		return err
	}
	_, err = client.DeleteCluster(ctx, &ecs.DeleteClusterInput{Cluster: aws.String(out.Arn)})
	return classifyAWSError(err)
}

var _ resource.Adapter[EcsClusterInput, EcsClusterOutput] = EcsClusterAdapter{}
