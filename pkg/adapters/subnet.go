package adapters

import (
	"context"
	"fmt"
	"math"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/connector"
	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

// SubnetInput declares a subnet within an already-existing VPC.
type SubnetInput struct {
	VpcID            any               `json:"vpc_id" validate:"required"`
	CidrBlock        any               `json:"cidr_block" validate:"required"`
	AvailabilityZone string            `json:"availability_zone" validate:"required"`
	Tags             map[string]string `json:"tags,omitempty"`
}

// SubnetOutput is a created subnet's identity.
type SubnetOutput struct {
	SubnetID  string `json:"subnet_id"`
	CidrBlock string `json:"cidr_block"`
}

// SubnetAdapter creates and tears down a subnet. Grounded on
// original_source/pdep/aws/network.py's Subnet (referenced from
// SimpleNetBB.do_init_resources).
type SubnetAdapter struct {
	Log zerolog.Logger
}

func (SubnetAdapter) ClassTag() string          { return "aws.Subnet" }
func (SubnetAdapter) CreateBeforeDestroy() bool { return false }

func (a SubnetAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SubnetInput) (SubnetOutput, error) {
	vpcID, ok := in.VpcID.(string)
	if !ok {
		return SubnetOutput{}, perrors.NewInvariantViolation("subnet vpc_id did not resolve to a string")
	}
	cidr, ok := in.CidrBlock.(string)
	if !ok {
		return SubnetOutput{}, perrors.NewInvariantViolation("subnet cidr_block did not resolve to a string")
	}

	if dry {
		return SubnetOutput{SubnetID: "subnet-dummy", CidrBlock: cidr}, nil
	}

	client, err := provider.EC2Client(p)
	if err != nil {
		return SubnetOutput{}, err
	}

	resp, err := client.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:            aws.String(vpcID),
		CidrBlock:        aws.String(cidr),
		AvailabilityZone: aws.String(in.AvailabilityZone),
	})
	if err != nil {
		return SubnetOutput{}, classifyAWSError(err)
	}
	subnetID := aws.ToString(resp.Subnet.SubnetId)

	if _, err := client.CreateTags(ctx, &ec2.CreateTagsInput{
		Resources: []string{subnetID},
		Tags:      ec2Tags(withApplyUUID(in.Tags, applyUUID)),
	}); err != nil {
		return SubnetOutput{}, classifyAWSError(err)
	}

	a.Log.Info().Str("subnet_id", subnetID).Msg("subnet created")
	return SubnetOutput{SubnetID: subnetID, CidrBlock: cidr}, nil
}

func (a SubnetAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in SubnetInput, prevOutput SubnetOutput) (SubnetOutput, bool, error) {
	return SubnetOutput{}, false, nil
}

func (a SubnetAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in SubnetInput, out SubnetOutput) (bool, error) {
	if dry {
		return false, nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return false, err
	}
	resp, err := client.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: []string{out.SubnetID}})
	if err != nil {
		return false, classifyAWSError(err)
	}
	if len(resp.Subnets) == 0 {
		return false, perrors.NewNotFound("subnet %s no longer exists", out.SubnetID).WithResource(out.SubnetID)
	}
	return resp.Subnets[0].State != ec2types.SubnetStateAvailable, nil
}

func (a SubnetAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SubnetInput, out SubnetOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return err
	}
	_, err = client.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: aws.String(out.SubnetID)})
	return classifyAWSError(err)
}

var _ resource.Adapter[SubnetInput, SubnetOutput] = SubnetAdapter{}

// SubnetCidr builds a CalcConnector subdividing cidrBlock into
// 2^ceil(log2(totalSubnets)) equal subnets and selecting the subnetNum'th
// one. Grounded, almost call-for-call, on
// original_source/pdep/aws/backbones/net/simplenetbb.py's
// SubnetCidrCalculator.
func SubnetCidr(cidrBlock connector.Value, totalSubnets, subnetNum int) *connector.CalcConnector {
	return connector.Calc(func(args []any) (any, error) {
		cidrStr, ok := args[0].(string)
		if !ok {
			return nil, perrors.NewInvariantViolation("subnet cidr calculator: vpc cidr_block did not resolve to a string")
		}
		_, network, err := net.ParseCIDR(cidrStr)
		if err != nil {
			return nil, perrors.NewInvariantViolation("subnet cidr calculator: invalid cidr %q: %v", cidrStr, err)
		}

		prefixDiff := int(math.Ceil(math.Log2(float64(totalSubnets))))
		ones, bits := network.Mask.Size()
		newPrefix := ones + prefixDiff
		if newPrefix > bits {
			return nil, perrors.NewInvariantViolation("subnet cidr calculator: cannot subdivide %s into %d subnets", cidrStr, totalSubnets)
		}

		subnetIP := make(net.IP, len(network.IP))
		copy(subnetIP, network.IP)
		blockSize := uint64(1) << uint(bits-newPrefix)
		offset := blockSize * uint64(subnetNum)
		addIPOffset(subnetIP, offset)

		return fmt.Sprintf("%s/%d", subnetIP.String(), newPrefix), nil
	}, cidrBlock)
}

// addIPOffset adds offset to ip in place, treating ip as a big-endian
// integer (IPv4 or IPv6).
func addIPOffset(ip net.IP, offset uint64) {
	for i := len(ip) - 1; i >= 0 && offset > 0; i-- {
		sum := uint64(ip[i]) + offset
		ip[i] = byte(sum & 0xff)
		offset = sum >> 8
	}
}
