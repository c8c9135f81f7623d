package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/Varun5711/campusapi/internal/models"
)

var (
	ErrEmailRequired        = errors.New("Email is required")
	ErrEmailInvalid         = errors.New("Email is invalid")
	ErrNameTooLong          = errors.New("Name must be at most 255 characters")
	ErrProductNameRequired  = errors.New("Product name is required")
	ErrPriceNegative        = errors.New("Price must be zero or greater")
	ErrStockNegative        = errors.New("Stock must be zero or greater")
	ErrQuantityInvalid      = errors.New("Quantity must be greater than zero")
	ErrCourseNameRequired   = errors.New("Name and credits are required")
	ErrCreditsInvalid       = errors.New("Credits must be greater than zero")
	ErrDateRange            = errors.New("End date cannot be before start date")
	ErrEvaluationNoteRange  = errors.New("Evaluation note must be between 0 and 100")
	ErrStudentNumberInvalid = errors.New("Student number can only contain letters, numbers and hyphens")
	ErrGraduationYear       = errors.New("Graduation year must be between 1900 and 2200")
	ErrStatusRequired       = errors.New("Status is required")
)

const maxTextLength = 255

var studentNumberRegex = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// NormalizeEmail trims and lowercases so uniqueness holds regardless of case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > maxTextLength {
		return ErrEmailInvalid
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return ErrEmailInvalid
	}
	return nil
}

func ValidateName(name string) error {
	if len(name) > maxTextLength {
		return ErrNameTooLong
	}
	return nil
}

func ValidateProduct(name string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return ErrProductNameRequired
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if price < 0 {
		return ErrPriceNegative
	}
	if stock < 0 {
		return ErrStockNegative
	}
	return nil
}

func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityInvalid
	}
	return nil
}

func ValidateCourseClass(name string, credits int, start, end *models.Date) error {
	if strings.TrimSpace(name) == "" {
		return ErrCourseNameRequired
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if credits <= 0 {
		return ErrCreditsInvalid
	}
	if start != nil && end != nil && end.Before(start.Time) {
		return ErrDateRange
	}
	return nil
}

func ValidateEvaluationNote(note *int) error {
	if note == nil {
		return nil
	}
	if *note < 0 || *note > 100 {
		return ErrEvaluationNoteRange
	}
	return nil
}

func ValidateStudentNumber(number string) error {
	if !studentNumberRegex.MatchString(number) {
		return ErrStudentNumberInvalid
	}
	return nil
}

func ValidateGraduationYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < 1900 || *year > 2200 {
		return ErrGraduationYear
	}
	return nil
}

// ValidateStatus accepts an empty allowed list as "anything non-blank".
func ValidateStatus(status string, allowed []string) error {
	if strings.TrimSpace(status) == "" {
		return ErrStatusRequired
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, a := range allowed {
		if status == a {
			return nil
		}
	}
	return fmt.Errorf("Status must be one of: %s", strings.Join(allowed, ", "))
}
