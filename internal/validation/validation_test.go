package validation

import (
	"testing"
	"time"

	"github.com/Varun5711/campusapi/internal/models"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"test@example.com",
		"first.last@uni.edu",
		"a+tag@sub.domain.org",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected '%s' to be valid, got error: %v", email, err)
		}
	}

	invalid := map[string]error{
		"":                     ErrEmailRequired,
		"plainaddress":         ErrEmailInvalid,
		"missing@tld":          ErrEmailInvalid,
		"Name <a@example.com>": ErrEmailInvalid,
		"two@@example.com":     ErrEmailInvalid,
	}
	for email, want := range invalid {
		if err := ValidateEmail(email); err != want {
			t.Errorf("expected %v for '%s', got: %v", want, email, err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Test@Example.COM "); got != "test@example.com" {
		t.Errorf("expected 'test@example.com', got '%s'", got)
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		stock int
		want  error
	}{
		{"Pen", 1.5, 10, nil},
		{"Free sample", 0, 0, nil},
		{"", 1, 1, ErrProductNameRequired},
		{"   ", 1, 1, ErrProductNameRequired},
		{"Pen", -0.01, 1, ErrPriceNegative},
		{"Pen", 1, -1, ErrStockNegative},
	}

	for _, tt := range tests {
		if err := ValidateProduct(tt.name, tt.price, tt.stock); err != tt.want {
			t.Errorf("ValidateProduct(%q, %v, %d) = %v, want %v", tt.name, tt.price, tt.stock, err, tt.want)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	if err := ValidateQuantity(1); err != nil {
		t.Errorf("expected 1 to be valid, got %v", err)
	}
	for _, q := range []int{0, -3} {
		if err := ValidateQuantity(q); err != ErrQuantityInvalid {
			t.Errorf("expected ErrQuantityInvalid for %d, got %v", q, err)
		}
	}
}

func TestValidateCourseClass(t *testing.T) {
	start := models.NewDate(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	end := models.NewDate(time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC))

	if err := ValidateCourseClass("Algebra", 6, &start, &end); err != nil {
		t.Errorf("expected valid course, got %v", err)
	}
	if err := ValidateCourseClass("Algebra", 6, &start, &start); err != nil {
		t.Errorf("expected single-day course to be valid, got %v", err)
	}
	if err := ValidateCourseClass("Algebra", 6, &end, &start); err != ErrDateRange {
		t.Errorf("expected ErrDateRange, got %v", err)
	}
	if err := ValidateCourseClass("", 6, nil, nil); err != ErrCourseNameRequired {
		t.Errorf("expected ErrCourseNameRequired, got %v", err)
	}
	if err := ValidateCourseClass("Algebra", 0, nil, nil); err != ErrCreditsInvalid {
		t.Errorf("expected ErrCreditsInvalid, got %v", err)
	}
}

func TestValidateEvaluationNote(t *testing.T) {
	ptr := func(n int) *int { return &n }

	for _, n := range []*int{nil, ptr(0), ptr(55), ptr(100)} {
		if err := ValidateEvaluationNote(n); err != nil {
			t.Errorf("expected valid note, got %v", err)
		}
	}
	for _, n := range []*int{ptr(-1), ptr(101)} {
		if err := ValidateEvaluationNote(n); err != ErrEvaluationNoteRange {
			t.Errorf("expected ErrEvaluationNoteRange for %d, got %v", *n, err)
		}
	}
}

func TestValidateStudentNumber(t *testing.T) {
	for _, n := range []string{"S-1a2B", "2024001", "ABC-123"} {
		if err := ValidateStudentNumber(n); err != nil {
			t.Errorf("expected '%s' to be valid, got %v", n, err)
		}
	}
	for _, n := range []string{"", "S 1", "S_1", "S.1"} {
		if err := ValidateStudentNumber(n); err != ErrStudentNumberInvalid {
			t.Errorf("expected ErrStudentNumberInvalid for '%s', got %v", n, err)
		}
	}
}

func TestValidateStatus(t *testing.T) {
	allowed := []string{"pending", "completed"}

	if err := ValidateStatus("completed", allowed); err != nil {
		t.Errorf("expected valid status, got %v", err)
	}
	if err := ValidateStatus("", allowed); err != ErrStatusRequired {
		t.Errorf("expected ErrStatusRequired, got %v", err)
	}
	if err := ValidateStatus("shipped", allowed); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := ValidateStatus("anything", nil); err != nil {
		t.Errorf("expected free-form status to pass, got %v", err)
	}
}

func TestValidateGraduationYear(t *testing.T) {
	year := 2027
	if err := ValidateGraduationYear(&year); err != nil {
		t.Errorf("expected valid year, got %v", err)
	}
	bad := 20
	if err := ValidateGraduationYear(&bad); err != ErrGraduationYear {
		t.Errorf("expected ErrGraduationYear, got %v", err)
	}
	if err := ValidateGraduationYear(nil); err != nil {
		t.Errorf("expected nil year to pass, got %v", err)
	}
}
