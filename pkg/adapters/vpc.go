package adapters

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

// VpcInput declares a VPC to create.
type VpcInput struct {
	CidrBlock string            `json:"cidr_block" validate:"required"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// VpcOutput is a created VPC's identity.
type VpcOutput struct {
	VpcID     string `json:"vpc_id"`
	CidrBlock string `json:"cidr_block"`
}

// VpcAdapter creates and tears down a VPC. Grounded on
// original_source/pdep/aws/network.py's Vpc: create, tag with apply_uuid,
// drift-check against the live describe, replace (never update in place)
// on any mismatch.
type VpcAdapter struct {
	Log zerolog.Logger
}

func (VpcAdapter) ClassTag() string          { return "aws.Vpc" }
func (VpcAdapter) CreateBeforeDestroy() bool { return false }

func (a VpcAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in VpcInput) (VpcOutput, error) {
	if dry {
		return VpcOutput{VpcID: "vpc-dummy", CidrBlock: in.CidrBlock}, nil
	}

	client, err := provider.EC2Client(p)
	if err != nil {
		return VpcOutput{}, err
	}

	resp, err := client.CreateVpc(ctx, &ec2.CreateVpcInput{CidrBlock: aws.String(in.CidrBlock)})
	if err != nil {
		return VpcOutput{}, classifyAWSError(err)
	}
	vpcID := aws.ToString(resp.Vpc.VpcId)

	if _, err := client.CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: []string{vpcID},
		Tags:      ec2Tags(withApplyUUID(in.Tags, applyUUID)),
	}); err != nil {
		return VpcOutput{}, classifyAWSError(err)
	}

	a.Log.Info().Str("vpc_id", vpcID).Msg("vpc created")
	return VpcOutput{VpcID: vpcID, CidrBlock: in.CidrBlock}, nil
}

func (a VpcAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in VpcInput, prevOutput VpcOutput) (VpcOutput, bool, error) {
	return VpcOutput{}, false, nil
}

func (a VpcAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in VpcInput, out VpcOutput) (bool, error) {
	if dry {
		return false, nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return false, err
	}

	resp, err := client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{out.VpcID}})
	if err != nil {
		return false, classifyAWSError(err)
	}
	if len(resp.Vpcs) == 0 {
		return false, perrors.NewNotFound("vpc %s no longer exists", out.VpcID).WithResource(out.VpcID)
	}
	vpc := resp.Vpcs[0]
	return vpc.State != ec2types.VpcStateAvailable || aws.ToString(vpc.CidrBlock) != in.CidrBlock, nil
}

func (a VpcAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in VpcInput, out VpcOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return err
	}
	_, err = client.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: aws.String(out.VpcID)})
	return classifyAWSError(err)
}

var _ resource.Adapter[VpcInput, VpcOutput] = VpcAdapter{}
