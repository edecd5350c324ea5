package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"omitempty,engagement_status"`
	State  string `json:"state" validate:"omitempty,br_state"`
	Slug   string `json:"slug" validate:"omitempty,slug"`
	Rating int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{
		Email:  "user@example.com",
		Status: "in_progress",
		State:  "PR",
		Slug:   "waste-management",
		Rating: 4,
	})
	assert.NoError(t, err)
}

func TestValidate_FieldNamesComeFromJSONTags(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{Email: "not-an-email"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	assert.Contains(t, vErr.Errors, "email")
	assert.NotContains(t, vErr.Errors, "Email")
}

func TestValidate_EngagementStatus(t *testing.T) {
	v := New()

	for _, status := range []string{"draft", "open", "in_progress", "completed", "cancelled"} {
		err := v.Validate(&sampleRequest{Email: "u@e.com", Status: status})
		assert.NoError(t, err, "status %q should be valid", status)
	}

	err := v.Validate(&sampleRequest{Email: "u@e.com", Status: "archived"})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Contains(t, vErr.Errors["status"], "engagement status")
}

func TestValidate_BRState(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sampleRequest{Email: "u@e.com", State: "SP"}))
	assert.NoError(t, v.Validate(&sampleRequest{Email: "u@e.com"}), "empty state is optional")

	assert.Error(t, v.Validate(&sampleRequest{Email: "u@e.com", State: "sp"}))
	assert.Error(t, v.Validate(&sampleRequest{Email: "u@e.com", State: "SAO"}))
}

func TestValidate_Slug(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sampleRequest{Email: "u@e.com", Slug: "environmental-audits"}))
	assert.Error(t, v.Validate(&sampleRequest{Email: "u@e.com", Slug: "Environmental Audits"}))
	assert.Error(t, v.Validate(&sampleRequest{Email: "u@e.com", Slug: "-leading-hyphen"}))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"rating": "Must be at most 5"}}
	assert.Contains(t, err.Error(), "rating")
	assert.Contains(t, err.Error(), "Must be at most 5")
}
