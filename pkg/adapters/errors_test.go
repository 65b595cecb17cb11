package adapters

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"

	"github.com/amirhadar/pdep-go/pkg/perrors"
)

type fakeAPIError struct{ code, msg string }

func (e fakeAPIError) Error() string       { return e.code + ": " + e.msg }
func (e fakeAPIError) ErrorCode() string   { return e.code }
func (e fakeAPIError) ErrorMessage() string { return e.msg }
func (e fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

func TestClassifyAWSErrorNil(t *testing.T) {
	if err := classifyAWSError(nil); err != nil {
		t.Errorf("expected nil to classify to nil, got %v", err)
	}
}

func TestClassifyAWSErrorNotFound(t *testing.T) {
	err := classifyAWSError(fakeAPIError{code: "InvalidVpcID.NotFound", msg: "gone"})
	var perr *perrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected a perrors.Error, got %T", err)
	}
	if perr.Class != perrors.NotFound {
		t.Errorf("expected NotFound class, got %v", perr.Class)
	}
}

func TestClassifyAWSErrorOtherAPIErrorIsTransient(t *testing.T) {
	err := classifyAWSError(fakeAPIError{code: "ThrottlingException", msg: "slow down"})
	var perr *perrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected a perrors.Error, got %T", err)
	}
	if perr.Class != perrors.Transient {
		t.Errorf("expected Transient class, got %v", perr.Class)
	}
}

func TestClassifyAWSErrorNonAPIErrorIsTransient(t *testing.T) {
	err := classifyAWSError(errors.New("connection refused"))
	var perr *perrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected a perrors.Error, got %T", err)
	}
	if perr.Class != perrors.Transient {
		t.Errorf("expected Transient class, got %v", perr.Class)
	}
}
