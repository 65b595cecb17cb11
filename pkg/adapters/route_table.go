package adapters

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

// RouteTableInput declares a route table owned by a VPC.
type RouteTableInput struct {
	VpcID any `json:"vpc_id" validate:"required"`
}

// RouteTableOutput is a created route table's identity.
type RouteTableOutput struct {
	RouteTableID string `json:"route_table_id"`
}

// RouteTableAdapter creates and tears down a route table. Grounded on
// original_source/pdep/aws/network.py's RouteTable (a stub in the
// original returning a fixed arn; here given a real LocalStack-backed
// implementation since SimpleNetBB wires a real resources.rout_table.output
// into downstream associations).
type RouteTableAdapter struct {
	Log zerolog.Logger
}

func (RouteTableAdapter) ClassTag() string          { return "aws.RouteTable" }
func (RouteTableAdapter) CreateBeforeDestroy() bool { return false }

func (a RouteTableAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in RouteTableInput) (RouteTableOutput, error) {
	vpcID, ok := in.VpcID.(string)
	if !ok {
		return RouteTableOutput{}, perrors.NewInvariantViolation("route table vpc_id did not resolve to a string")
	}
	if dry {
		return RouteTableOutput{RouteTableID: "rtb-dummy"}, nil
	}

	client, err := provider.EC2Client(p)
	if err != nil {
		return RouteTableOutput{}, err
	}
	resp, err := client.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{VpcId: aws.String(vpcID)})
	if err != nil {
		return RouteTableOutput{}, classifyAWSError(err)
	}
	rtID := aws.ToString(resp.RouteTable.RouteTableId)
	a.Log.Info().Str("route_table_id", rtID).Msg("route table created")
	return RouteTableOutput{RouteTableID: rtID}, nil
}

func (a RouteTableAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in RouteTableInput, prevOutput RouteTableOutput) (RouteTableOutput, bool, error) {
	return RouteTableOutput{}, false, nil
}

func (a RouteTableAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in RouteTableInput, out RouteTableOutput) (bool, error) {
	if dry {
		return false, nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return false, err
	}
	resp, err := client.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{RouteTableIds: []string{out.RouteTableID}})
	if err != nil {
		return false, classifyAWSError(err)
	}
	if len(resp.RouteTables) == 0 {
		return false, perrors.NewNotFound("route table %s no longer exists", out.RouteTableID).WithResource(out.RouteTableID)
	}
	return false, nil
}

func (a RouteTableAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in RouteTableInput, out RouteTableOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return err
	}
	_, err = client.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{RouteTableId: aws.String(out.RouteTableID)})
	return classifyAWSError(err)
}

var _ resource.Adapter[RouteTableInput, RouteTableOutput] = RouteTableAdapter{}

// RouteTableAssociationInput binds a subnet to a route table.
type RouteTableAssociationInput struct {
	RouteTableID any `json:"route_table_id" validate:"required"`
	SubnetID     any `json:"subnet_id" validate:"required"`
}

// RouteTableAssociationOutput is a created association's identity.
type RouteTableAssociationOutput struct {
	AssociationID string `json:"association_id"`
}

// RouteTableAssociationAdapter associates a subnet with a route table.
// Grounded on SimpleNetBB.do_init_resources's route_table_associations loop
// in original_source/pdep/aws/backbones/net/simplenetbb.py.
type RouteTableAssociationAdapter struct {
	Log zerolog.Logger
}

func (RouteTableAssociationAdapter) ClassTag() string          { return "aws.RouteTableAssociation" }
func (RouteTableAssociationAdapter) CreateBeforeDestroy() bool { return false }

func (a RouteTableAssociationAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in RouteTableAssociationInput) (RouteTableAssociationOutput, error) {
	rtID, ok := in.RouteTableID.(string)
	if !ok {
		return RouteTableAssociationOutput{}, perrors.NewInvariantViolation("route table association route_table_id did not resolve to a string")
	}
	subnetID, ok := in.SubnetID.(string)
	if !ok {
		return RouteTableAssociationOutput{}, perrors.NewInvariantViolation("route table association subnet_id did not resolve to a string")
	}
	if dry {
		return RouteTableAssociationOutput{AssociationID: "rtbassoc-dummy"}, nil
	}

	client, err := provider.EC2Client(p)
	if err != nil {
		return RouteTableAssociationOutput{}, err
	}
	resp, err := client.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
		RouteTableId: aws.String(rtID),
		SubnetId:     aws.String(subnetID),
	})
	if err != nil {
		return RouteTableAssociationOutput{}, classifyAWSError(err)
	}
	assocID := aws.ToString(resp.AssociationId)
	a.Log.Info().Str("association_id", assocID).Msg("route table associated")
	return RouteTableAssociationOutput{AssociationID: assocID}, nil
}

func (a RouteTableAssociationAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in RouteTableAssociationInput, prevOutput RouteTableAssociationOutput) (RouteTableAssociationOutput, bool, error) {
	return RouteTableAssociationOutput{}, false, nil
}

func (a RouteTableAssociationAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in RouteTableAssociationInput, out RouteTableAssociationOutput) (bool, error) {
	return false, nil
}

func (a RouteTableAssociationAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in RouteTableAssociationInput, out RouteTableAssociationOutput) error {
	if dry {
		return nil
	}
	client, err := provider.EC2Client(p)
	if err != nil {
		return err
	}
	_, err = client.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{AssociationId: aws.String(out.AssociationID)})
	return classifyAWSError(err)
}

var _ resource.Adapter[RouteTableAssociationInput, RouteTableAssociationOutput] = RouteTableAssociationAdapter{}
