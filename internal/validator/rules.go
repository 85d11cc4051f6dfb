package validator

import (
	"log"

	"maidmatch_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers the domain enum rules. Empty values pass;
// use `required` to forbid them.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", enumRule(func(s string) bool { return models.UserRole(s).Valid() }))
	mustRegister("is-verification-status", enumRule(func(s string) bool { return models.VerificationStatus(s).Valid() }))
	mustRegister("is-job-status", enumRule(func(s string) bool { return models.JobStatus(s).Valid() }))
	mustRegister("is-application-status", enumRule(func(s string) bool { return models.ApplicationStatus(s).Valid() }))
	mustRegister("is-pay-period", enumRule(func(s string) bool { return models.PayPeriod(s).Valid() }))
	mustRegister("is-employment-type", enumRule(func(s string) bool { return models.EmploymentType(s).Valid() }))
}

func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}
