package validator

import (
	"regexp"
	"strings"

	"ecowork_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// registerCustomRules wires project-specific validation tags.
func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("engagement_status", validateEngagementStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("br_state", validateBRState); err != nil {
		return err
	}
	return v.RegisterValidation("slug", validateSlug)
}

func validateEngagementStatus(fl validator.FieldLevel) bool {
	switch models.EngagementStatus(fl.Field().String()) {
	case models.EngagementStatusDraft,
		models.EngagementStatusOpen,
		models.EngagementStatusInProgress,
		models.EngagementStatusCompleted,
		models.EngagementStatusCancelled:
		return true
	}
	return false
}

func validateBRState(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true // optional fields pass when empty
	}
	return len(s) == 2 && s == strings.ToUpper(s)
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}
