package adapters

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/amirhadar/pdep-go/pkg/perrors"
)

// classifyAWSError maps a smithy API error to perrors' taxonomy: a
// NotFound-shaped error code (every AWS service spells "gone" differently —
// InvalidVpcID.NotFound, ClusterNotFoundException, LoadBalancerNotFound,
// ResourceNotFoundException) becomes perrors.NotFound so IsDrifted/Destroy
// can treat external deletion as drift rather than a hard failure; anything
// else is classed Transient, the safe default for a possibly-retryable AWS
// API failure (no finer AWS-specific taxonomy is tracked).
func classifyAWSError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if strings.Contains(code, "NotFound") {
			return perrors.NewNotFound("%s", apiErr.ErrorMessage()).WithCode(code)
		}
		return perrors.NewTransient("%s", apiErr.ErrorMessage()).WithCode(code)
	}
	return perrors.NewTransient("%v", err)
}
