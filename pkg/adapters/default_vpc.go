package adapters

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

// DefaultVpc builds an Existing adapter discovering the account's default
// VPC instead of creating a new one. Grounded on
// original_source/pdep/aws/backbones/net/simplenetbb.py's
// `self.resources.main_vpc = DefaultVpc()` fallback.
func DefaultVpc(log zerolog.Logger) Existing[struct{}, VpcOutput] {
	return Existing[struct{}, VpcOutput]{
		Tag: "aws.DefaultVpc",
		Log: log,
		Discover: func(ctx context.Context, p resource.Provider, _ struct{}) (VpcOutput, error) {
			client, err := provider.EC2Client(p)
			if err != nil {
				return VpcOutput{}, err
			}
			resp, err := client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
				Filters: []ec2types.Filter{{Name: aws.String("isDefault"), Values: []string{"true"}}},
			})
			if err != nil {
				return VpcOutput{}, classifyAWSError(err)
			}
			if len(resp.Vpcs) == 0 {
				return VpcOutput{}, perrors.NewNotFound("account has no default vpc")
			}
			vpc := resp.Vpcs[0]
			return VpcOutput{VpcID: aws.ToString(vpc.VpcId), CidrBlock: aws.ToString(vpc.CidrBlock)}, nil
		},
		Drifted: func(ctx context.Context, p resource.Provider, _ struct{}, out VpcOutput) (bool, error) {
			client, err := provider.EC2Client(p)
			if err != nil {
				return false, err
			}
			resp, err := client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{out.VpcID}})
			if err != nil {
				return false, classifyAWSError(err)
			}
			return len(resp.Vpcs) == 0 || resp.Vpcs[0].State != ec2types.VpcStateAvailable, nil
		},
	}
}
