package validator

import (
	"testing"

	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJob() dto.CreateJobRequest {
	return dto.CreateJobRequest{
		Title:          "Weekly house cleaning",
		Location:       "Westlands",
		Compensation:   dto.CompensationDTO{Amount: 1500, Period: models.PayPeriodDaily},
		EmploymentType: models.EmploymentTemporary,
		Requirements:   []string{"ironing", "cooking"},
	}
}

func TestValidate_CreateJobRequest_OK(t *testing.T) {
	v := New()
	req := validJob()
	assert.NoError(t, v.Validate(&req))
}

func TestValidate_CreateJobRequest_Enums(t *testing.T) {
	v := New()
	req := validJob()
	req.Compensation.Period = "weekly"
	req.EmploymentType = "gig"

	err := v.Validate(&req)
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "compensation.period")
	assert.Contains(t, vErr.Errors, "employment_type")
	assert.Equal(t, "Must be one of: temporary, permanent", vErr.Errors["employment_type"])
}

func TestValidate_CreateJobRequest_Required(t *testing.T) {
	v := New()
	req := validJob()
	req.Title = ""
	req.Requirements = []string{"ok", ""}

	err := v.Validate(&req)
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Equal(t, "This field is required", vErr.Errors["title"])
	assert.Contains(t, vErr.Errors, "requirements[1]")
}

func TestValidate_JobStatusRule(t *testing.T) {
	v := New()
	bad := models.JobStatus("archived")
	good := models.JobStatusCancelled

	assert.Error(t, v.Validate(&dto.UpdateJobFields{Status: &bad}))
	assert.NoError(t, v.Validate(&dto.UpdateJobFields{Status: &good}))
	assert.NoError(t, v.Validate(&dto.UpdateJobFields{}))
}

func TestValidate_UserRoleRule(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&dto.UpsertIdentityRequest{Role: models.UserRoleProvider}))
	assert.Error(t, v.Validate(&dto.UpsertIdentityRequest{Role: "system"}))
	assert.Error(t, v.Validate(&dto.UpsertIdentityRequest{}))
}
