package adapters

import (
	"testing"

	"github.com/google/uuid"
)

func TestWithApplyUUIDMergesWithoutMutatingInput(t *testing.T) {
	original := map[string]string{"env": "prod"}
	id := uuid.New()
	merged := withApplyUUID(original, id)

	if merged["env"] != "prod" {
		t.Errorf("expected original tag preserved, got %v", merged)
	}
	if merged["apply_uuid"] != id.String() {
		t.Errorf("expected apply_uuid tag set, got %v", merged)
	}
	if _, ok := original["apply_uuid"]; ok {
		t.Error("withApplyUUID must not mutate its input map")
	}
}

func TestEc2TagsConversion(t *testing.T) {
	tags := ec2Tags(map[string]string{"name": "main"})
	if len(tags) != 1 || *tags[0].Key != "name" || *tags[0].Value != "main" {
		t.Errorf("unexpected ec2 tags: %+v", tags)
	}
}
