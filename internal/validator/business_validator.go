package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/coursekit/platform-service/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateUserStatusTransition validates account state changes against the
// lifecycle state machine.
func (bv *BusinessValidator) ValidateUserStatusTransition(current, next models.UserStatus) ValidationErrors {
	var errors ValidationErrors

	if !current.CanTransitionTo(next) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", current, next),
			Value:   next,
			Rule:    "status_transition",
		})
	}

	return errors
}

// ValidateCourseStatusTransition validates course publishing state changes.
func (bv *BusinessValidator) ValidateCourseStatusTransition(current, next models.CourseStatus) ValidationErrors {
	var errors ValidationErrors

	allowedTransitions := map[models.CourseStatus][]models.CourseStatus{
		models.CourseDraft:       {models.CoursePublished},
		models.CoursePublished:   {models.CourseUnpublished},
		models.CourseUnpublished: {models.CoursePublished},
	}

	allowed := false
	for _, allowedStatus := range allowedTransitions[current] {
		if next == allowedStatus {
			allowed = true
			break
		}
	}

	if !allowed {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", current, next),
			Value:   next,
			Rule:    "status_transition",
		})
	}

	return errors
}

// ValidateEnrollmentDecision validates moving an enrollment out of pending.
func (bv *BusinessValidator) ValidateEnrollmentDecision(current, next models.EnrollmentStatus) ValidationErrors {
	var errors ValidationErrors

	if current != models.EnrollmentPending {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "enrollment has already been decided",
			Value:   current,
			Rule:    "status_transition",
		})
	}

	if next != models.EnrollmentApproved && next != models.EnrollmentRejected {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "decision must be approved or rejected",
			Value:   next,
			Rule:    "status_transition",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Username validation (3-30 characters, letters/digits/dots/underscores)
	bv.validate.RegisterValidation("username_format", func(fl validator.FieldLevel) bool {
		username := strings.TrimSpace(fl.Field().String())
		if len(username) < 3 || len(username) > 30 {
			return false
		}
		return usernamePattern.MatchString(username)
	})

	// Password strength validation (minimum 8 characters)
	bv.validate.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) >= 8
	})

	// user role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []models.UserRole{models.RoleUser, models.RoleAdmin, models.RoleInstructor}
		for _, vr := range validRoles {
			if models.UserRole(role) == vr {
				return true
			}
		}
		return false
	})

	// user status validation
	bv.validate.RegisterValidation("user_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []models.UserStatus{models.StatusInactive, models.StatusActive, models.StatusSuspended, models.StatusDeleted}
		for _, vs := range validStatuses {
			if models.UserStatus(status) == vs {
				return true
			}
		}
		return false
	})

	// media type validation
	bv.validate.RegisterValidation("media_type", func(fl validator.FieldLevel) bool {
		mediaType := fl.Field().String()
		validTypes := []models.MediaType{models.MediaImage, models.MediaVideo, models.MediaDocument}
		for _, vt := range validTypes {
			if models.MediaType(mediaType) == vt {
				return true
			}
		}
		return false
	})

	// course status validation
	bv.validate.RegisterValidation("course_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []models.CourseStatus{models.CourseDraft, models.CoursePublished, models.CourseUnpublished}
		for _, vs := range validStatuses {
			if models.CourseStatus(status) == vs {
				return true
			}
		}
		return false
	})

	// enrollment status validation
	bv.validate.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		validStatuses := []models.EnrollmentStatus{models.EnrollmentPending, models.EnrollmentApproved, models.EnrollmentRejected}
		for _, vs := range validStatuses {
			if models.EnrollmentStatus(status) == vs {
				return true
			}
		}
		return false
	})

	// Folder name validation (1-100 characters)
	bv.validate.RegisterValidation("folder_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 1 && len(name) <= 100
	})
}
