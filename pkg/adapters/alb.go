package adapters

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amirhadar/pdep-go/pkg/perrors"
	"github.com/amirhadar/pdep-go/pkg/provider"
	"github.com/amirhadar/pdep-go/pkg/resource"
)

const albWaiterTimeout = 2 * time.Minute

// AlbInput declares an application load balancer.
type AlbInput struct {
	Name            string            `json:"name" validate:"required"`
	Scheme          string            `json:"scheme" validate:"omitempty,oneof=internet-facing internal"`
	SecurityGroupID any               `json:"security_group_id" validate:"required"`
	SubnetIDs       []any             `json:"subnet_ids" validate:"required,min=1"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// AlbOutput is a created load balancer's identity.
type AlbOutput struct {
	Name    string `json:"name"`
	Arn     string `json:"arn"`
	DNSName string `json:"dns_name"`
}

// AlbAdapter creates and tears down an application load balancer. Grounded
// on original_source/pdep/aws/elb.py's Alb.
type AlbAdapter struct {
	Log zerolog.Logger
}

func (AlbAdapter) ClassTag() string          { return "aws.Alb" }
func (AlbAdapter) CreateBeforeDestroy() bool { return false }

func (a AlbAdapter) Create(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in AlbInput) (AlbOutput, error) {
	if dry {
		return AlbOutput{Name: in.Name, Arn: "arn-alb-dummy", DNSName: "dummy.elb.localhost"}, nil
	}

	sgID, ok := in.SecurityGroupID.(string)
	if !ok {
		return AlbOutput{}, perrors.NewInvariantViolation("alb security_group_id did not resolve to a string")
	}
	subnetIDs := make([]string, 0, len(in.SubnetIDs))
	for _, s := range in.SubnetIDs {
		str, ok := s.(string)
		if !ok {
			return AlbOutput{}, perrors.NewInvariantViolation("alb subnet_ids entry did not resolve to a string")
		}
		subnetIDs = append(subnetIDs, str)
	}
	scheme := in.Scheme
	if scheme == "" {
		scheme = "internal"
	}

	client, err := provider.ELBV2Client(p)
	if err != nil {
		return AlbOutput{}, err
	}
	resp, err := client.CreateLoadBalancer(ctx, &elasticloadbalancingv2.CreateLoadBalancerInput{
		Name:            aws.String(in.Name),
		Type:            elbv2types.LoadBalancerTypeEnumApplication,
		SecurityGroups:  []string{sgID},
		Subnets:         subnetIDs,
		IpAddressType:   elbv2types.IpAddressTypeIpv4,
		Scheme:          elbv2types.LoadBalancerSchemeEnum(scheme),
		Tags:            elbv2Tags(withApplyUUID(in.Tags, applyUUID)),
	})
	if err != nil {
		return AlbOutput{}, classifyAWSError(err)
	}
	if len(resp.LoadBalancers) == 0 {
		return AlbOutput{}, perrors.NewTransient("create_load_balancer returned no load balancers")
	}
	lb := resp.LoadBalancers[0]
	out := AlbOutput{Name: in.Name, Arn: aws.ToString(lb.LoadBalancerArn), DNSName: aws.ToString(lb.DNSName)}

	waiter := elasticloadbalancingv2.NewLoadBalancerAvailableWaiter(client)
	if err := waiter.Wait(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{LoadBalancerArns: []string{out.Arn}}, albWaiterTimeout); err != nil {
		return AlbOutput{}, perrors.NewTimeout("load balancer %s did not become available: %v", out.Arn, err)
	}

	a.Log.Info().Str("arn", out.Arn).Msg("load balancer created")
	return out, nil
}

func (a AlbAdapter) Update(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, prevInput, in AlbInput, prevOutput AlbOutput) (AlbOutput, bool, error) {
	return AlbOutput{}, false, nil
}

func (a AlbAdapter) IsDrifted(ctx context.Context, p resource.Provider, dry bool, in AlbInput, out AlbOutput) (bool, error) {
	if dry {
		return false, nil
	}
	client, err := provider.ELBV2Client(p)
	if err != nil {
		return false, err
	}
	resp, err := client.DescribeLoadBalancers(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{LoadBalancerArns: []string{out.Arn}})
	if err != nil {
		return false, classifyAWSError(err)
	}
	if len(resp.LoadBalancers) == 0 {
		return false, perrors.NewNotFound("load balancer %s no longer exists", out.Arn).WithResource(out.Arn)
	}
	return resp.LoadBalancers[0].State.Code != elbv2types.LoadBalancerStateEnumActive, nil
}

func (a AlbAdapter) Destroy(ctx context.Context, p resource.Provider, applyUUID uuid.UUID, dry bool, in AlbInput, out AlbOutput) error {
	if dry {
		return nil
	}
	client, err := provider.ELBV2Client(p)
	if err != nil {
		return err
	}
	_, err = client.DeleteLoadBalancer(ctx, &elasticloadbalancingv2.DeleteLoadBalancerInput{LoadBalancerArn: aws.String(out.Arn)})
	return classifyAWSError(err)
}

var _ resource.Adapter[AlbInput, AlbOutput] = AlbAdapter{}
