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

// SecurityGroupInput declares a security group owned by a VPC.
type SecurityGroupInput struct {
	VpcID       any    `json:"vpc_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// SecurityGroupOutput is a created security group's identity.
type SecurityGroupOutput struct {
	SecurityGroupID string `json:"security_group_id"`
}

// SecurityGroupAdapter creates and tears down a security group. Grounded on
// SimpleNetBB.do_init_resources's security_group wiring in
// original_source/pdep/aws/backbones/net/simplenetbb.py.
type SecurityGroupAdapter struct {
	Log zerolog.Logger
}

func (SecurityGroupAdapter) ClassTag() string          { return "aws.SecurityGroup" }
func (SecurityGroupAdapter) CreateBeforeDestroy() bool { return false }

func (a SecurityGroupAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SecurityGroupInput) (SecurityGroupOutput, error) {
	vpcID, ok := in.VpcID.(string)
	if !ok {
		return SecurityGroupOutput{}, perrors.NewInvariantViolation("security group vpc_id did not resolve to a string")
	}
	if dry {
		return SecurityGroupOutput{SecurityGroupID: "sg-dummy"}, nil
	}

	client, err := provider.EC2Client(p)
	if err != nil {
		return SecurityGroupOutput{}, err
	}
	resp, err := client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		VpcId:       aws.String(vpcID),
		GroupName:   aws.String(in.Name),
		Description: aws.String(in.Description),
	})
	if err != nil {
		return SecurityGroupOutput{}, classifyAWSError(err)
	}
	sgID := aws.ToString(resp.GroupId)
	a.Log.Info().Str("security_group_id", sgID).Msg("security group created")
	return SecurityGroupOutput{SecurityGroupID: sgID}, nil
}

func (a SecurityGroupAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in SecurityGroupInput, prevOutput SecurityGroupOutput) (SecurityGroupOutput, bool, error) {
	return SecurityGroupOutput{}, false, nil
}

func (a SecurityGroupAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in SecurityGroupInput, out SecurityGroupOutput) (bool, error) {
	if dry {
		return false, nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return false, err
	}
	resp, err := client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{GroupIds: []string{out.SecurityGroupID}})
	if err != nil {
		return false, classifyAWSError(err)
	}
	if len(resp.SecurityGroups) == 0 {
		return false, perrors.NewNotFound("security group %s no longer exists", out.SecurityGroupID).WithResource(out.SecurityGroupID)
	}
	return false, nil
}

func (a SecurityGroupAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SecurityGroupInput, out SecurityGroupOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return err
	}
	_, err = client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: aws.String(out.SecurityGroupID)})
	return classifyAWSError(err)
}

var _ resource.Adapter[SecurityGroupInput, SecurityGroupOutput] = SecurityGroupAdapter{}

// securityGroupRuleInput is shared by the ingress and egress rule
// adapters: both authorize/revoke a single IpPermission entry on an
// existing security group.
type securityGroupRuleInput struct {
	SecurityGroupID any      `json:"security_group_id" validate:"required"`
	FromPort        int32    `json:"from_port"`
	ToPort          int32    `json:"to_port"`
	Protocol        string   `json:"protocol" validate:"required"`
	CidrBlocks      []string `json:"cidr_blocks" validate:"required,min=1"`
}

// SecurityGroupRuleIngressInput declares an ingress rule.
type SecurityGroupRuleIngressInput = securityGroupRuleInput

// SecurityGroupRuleEgressInput declares an egress rule.
type SecurityGroupRuleEgressInput = securityGroupRuleInput

// SecurityGroupRuleOutput is a rule's resolved identity: AWS assigns no
// separate id to a security group rule entry, so the output mirrors the
// permission actually authorized (used to revoke the exact entry on
// destroy).
type SecurityGroupRuleOutput struct {
	SecurityGroupID string   `json:"security_group_id"`
	FromPort        int32    `json:"from_port"`
	ToPort          int32    `json:"to_port"`
	Protocol        string   `json:"protocol"`
	CidrBlocks      []string `json:"cidr_blocks"`
}

func ipPermission(in securityGroupRuleInput) ec2types.IpPermission {
	ranges := make([]ec2types.IpRange, 0, len(in.CidrBlocks))
	for _, c := range in.CidrBlocks {
		ranges = append(ranges, ec2types.IpRange{CidrIp: aws.String(c)})
	}
	return ec2types.IpPermission{
		FromPort:   aws.Int32(in.FromPort),
		ToPort:     aws.Int32(in.ToPort),
		IpProtocol: aws.String(in.Protocol),
		IpRanges:   ranges,
	}
}

// SecurityGroupRuleIngressAdapter authorizes and revokes a single ingress
// rule. Grounded on SimpleNetBB's security_group_ingress wiring.
type SecurityGroupRuleIngressAdapter struct {
	Log zerolog.Logger
}

func (SecurityGroupRuleIngressAdapter) ClassTag() string          { return "aws.SecurityGroupRuleIngress" }
func (SecurityGroupRuleIngressAdapter) CreateBeforeDestroy() bool { return false }

func (a SecurityGroupRuleIngressAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SecurityGroupRuleIngressInput) (SecurityGroupRuleOutput, error) {
	sgID, ok := in.SecurityGroupID.(string)
	if !ok {
		return SecurityGroupRuleOutput{}, perrors.NewInvariantViolation("security group rule security_group_id did not resolve to a string")
	}
	out := SecurityGroupRuleOutput{SecurityGroupID: sgID, FromPort: in.FromPort, ToPort: in.ToPort, Protocol: in.Protocol, CidrBlocks: in.CidrBlocks}
	if dry {
		return out, nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return SecurityGroupRuleOutput{}, err
	}
	_, err = client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:       aws.String(sgID),
		IpPermissions: []ec2types.IpPermission{ipPermission(in)},
	})
	if err != nil {
		return SecurityGroupRuleOutput{}, classifyAWSError(err)
	}
	a.Log.Info().Str("security_group_id", sgID).Msg("ingress rule authorized")
	return out, nil
}

func (a SecurityGroupRuleIngressAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in SecurityGroupRuleIngressInput, prevOutput SecurityGroupRuleOutput) (SecurityGroupRuleOutput, bool, error) {
	return SecurityGroupRuleOutput{}, false, nil
}

func (a SecurityGroupRuleIngressAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in SecurityGroupRuleIngressInput, out SecurityGroupRuleOutput) (bool, error) {
	return false, nil
}

func (a SecurityGroupRuleIngressAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SecurityGroupRuleIngressInput, out SecurityGroupRuleOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return err
	}
	_, err = client.RevokeSecurityGroupIngress(ctx, &ec2.RevokeSecurityGroupIngressInput{
		GroupId:       aws.String(out.SecurityGroupID),
		IpPermissions: []ec2types.IpPermission{ipPermission(in)},
	})
	return classifyAWSError(err)
}

var _ resource.Adapter[SecurityGroupRuleIngressInput, SecurityGroupRuleOutput] = SecurityGroupRuleIngressAdapter{}

// SecurityGroupRuleEgressAdapter authorizes and revokes a single egress
// rule. Grounded on SimpleNetBB's security_group_egress wiring.
type SecurityGroupRuleEgressAdapter struct {
	Log zerolog.Logger
}

func (SecurityGroupRuleEgressAdapter) ClassTag() string          { return "aws.SecurityGroupRuleEgress" }
func (SecurityGroupRuleEgressAdapter) CreateBeforeDestroy() bool { return false }

func (a SecurityGroupRuleEgressAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SecurityGroupRuleEgressInput) (SecurityGroupRuleOutput, error) {
	sgID, ok := in.SecurityGroupID.(string)
	if !ok {
		return SecurityGroupRuleOutput{}, perrors.NewInvariantViolation("security group rule security_group_id did not resolve to a string")
	}
	out := SecurityGroupRuleOutput{SecurityGroupID: sgID, FromPort: in.FromPort, ToPort: in.ToPort, Protocol: in.Protocol, CidrBlocks: in.CidrBlocks}
	if dry {
		return out, nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return SecurityGroupRuleOutput{}, err
	}
	_, err = client.AuthorizeSecurityGroupEgress(ctx, &ec2.AuthorizeSecurityGroupEgressInput{
		GroupId:       aws.String(sgID),
		IpPermissions: []ec2types.IpPermission{ipPermission(in)},
	})
	if err != nil {
		return SecurityGroupRuleOutput{}, classifyAWSError(err)
	}
	a.Log.Info().Str("security_group_id", sgID).Msg("egress rule authorized")
	return out, nil
}

func (a SecurityGroupRuleEgressAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in SecurityGroupRuleEgressInput, prevOutput SecurityGroupRuleOutput) (SecurityGroupRuleOutput, bool, error) {
	return SecurityGroupRuleOutput{}, false, nil
}

func (a SecurityGroupRuleEgressAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in SecurityGroupRuleEgressInput, out SecurityGroupRuleOutput) (bool, error) {
	return false, nil
}

func (a SecurityGroupRuleEgressAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in SecurityGroupRuleEgressInput, out SecurityGroupRuleOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return err
	}
	_, err = client.RevokeSecurityGroupEgress(ctx, &ec2.RevokeSecurityGroupEgressInput{
		GroupId:       aws.String(out.SecurityGroupID),
		IpPermissions: []ec2types.IpPermission{ipPermission(in)},
	})
	return classifyAWSError(err)
}

var _ resource.Adapter[SecurityGroupRuleEgressInput, SecurityGroupRuleOutput] = SecurityGroupRuleEgressAdapter{}
