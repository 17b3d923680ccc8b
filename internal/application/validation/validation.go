// Package validation checks loan application input before it reaches the
// assessment engine. Every failing field is reported, not just the first.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/application/dto"
)

const (
	MinApplicantAge = 18
	MaxApplicantAge = 65
	MaxLoanTenure   = 360

	dateLayout = "2006-01-02"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the failures.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type collector struct {
	fields []FieldError
}

func (c *collector) add(field, format string, args ...any) {
	c.fields = append(c.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.add(field, "is required")
		return false
	}
	return true
}

func (c *collector) match(field, value string, re *regexp.Regexp, what string) {
	if value != "" && !re.MatchString(value) {
		c.add(field, "invalid %s format", what)
	}
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}

// ValidateApplication checks a full application. now is the reference date
// for the age check.
func ValidateApplication(req dto.AssessApplicationRequest, now time.Time) error {
	c := &collector{}

	c.required("application_id", req.ApplicationID)
	c.required("applicant_id", req.ApplicantID)

	a := req.Applicant
	c.required("full_name", a.FullName)
	c.required("address_line1", a.AddressLine1)
	c.required("city", a.City)
	c.required("state", a.State)
	if c.required("phone", a.Phone) {
		c.match("phone", a.Phone, phonePattern, "phone number")
	}
	if c.required("pan_number", a.PANNumber) {
		c.match("pan_number", a.PANNumber, panPattern, "PAN number")
	}
	if c.required("aadhaar_number", a.AadhaarNumber) {
		c.match("aadhaar_number", a.AadhaarNumber, aadhaarPattern, "Aadhaar number")
	}
	if c.required("pincode", a.Pincode) {
		c.match("pincode", a.Pincode, pincodePattern, "pincode")
	}
	c.match("email", a.Email, emailPattern, "email")

	if c.required("date_of_birth", a.DateOfBirth) {
		dob, err := time.Parse(dateLayout, a.DateOfBirth)
		if err != nil {
			c.add("date_of_birth", "invalid date of birth format, want YYYY-MM-DD")
		} else {
			age := Age(dob, now)
			if age < MinApplicantAge {
				c.add("date_of_birth", "applicant must be at least %d years old", MinApplicantAge)
			}
			if age > MaxApplicantAge {
				c.add("date_of_birth", "applicant must be at most %d years old", MaxApplicantAge)
			}
		}
	}

	p := req.Profile
	c.required("employment_type", p.EmploymentType)
	if !p.MonthlyIncome.IsPositive() {
		c.add("monthly_income", "must be greater than 0")
	}
	if !p.LoanAmount.IsPositive() {
		c.add("loan_amount", "must be greater than 0")
	}
	if p.LoanTenure < 1 || p.LoanTenure > MaxLoanTenure {
		c.add("loan_tenure", "must be between 1 and %d months", MaxLoanTenure)
	}
	if p.WorkExperience < 0 {
		c.add("work_experience", "must not be negative")
	}

	return c.err()
}

// ValidateProfile checks a what-if profile. Zero amounts are allowed and a
// zero tenure selects the default.
func ValidateProfile(p dto.ProfileInput) error {
	c := &collector{}
	if p.MonthlyIncome.LessThan(decimal.Zero) {
		c.add("monthly_income", "must not be negative")
	}
	if p.LoanAmount.LessThan(decimal.Zero) {
		c.add("loan_amount", "must not be negative")
	}
	if p.LoanTenure < 0 || p.LoanTenure > MaxLoanTenure {
		c.add("loan_tenure", "must be between 0 and %d months", MaxLoanTenure)
	}
	if p.WorkExperience < 0 {
		c.add("work_experience", "must not be negative")
	}
	return c.err()
}

// Age returns completed years between dob and now.
func Age(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// MaskAadhaar hides all but the last four digits.
func MaskAadhaar(aadhaar string) string {
	if len(aadhaar) < 4 {
		return "XXXX-XXXX-XXXX"
	}
	return "XXXX-XXXX-" + aadhaar[len(aadhaar)-4:]
}

// MaskPAN keeps the first two and last four characters.
func MaskPAN(pan string) string {
	if len(pan) < 6 {
		return "XXXXXX"
	}
	return pan[:2] + "XXXX" + pan[len(pan)-4:]
}
