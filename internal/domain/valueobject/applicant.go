package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// EmploymentType – immutable value object
// ---------------------------------------------------------------------------

// EmploymentType classifies how an applicant earns income. Unrecognised
// inputs parse to EmploymentTypeOther rather than failing.
type EmploymentType struct {
	value string
}

const (
	employmentFullTime      = "full_time"
	employmentPartTime      = "part_time"
	employmentSelfEmployed  = "self_employed"
	employmentBusinessOwner = "business_owner"
	employmentContract      = "contract"
	employmentFreelance     = "freelance"
	employmentOther         = "other"
)

var (
	EmploymentTypeFullTime      = EmploymentType{value: employmentFullTime}
	EmploymentTypePartTime      = EmploymentType{value: employmentPartTime}
	EmploymentTypeSelfEmployed  = EmploymentType{value: employmentSelfEmployed}
	EmploymentTypeBusinessOwner = EmploymentType{value: employmentBusinessOwner}
	EmploymentTypeContract      = EmploymentType{value: employmentContract}
	EmploymentTypeFreelance     = EmploymentType{value: employmentFreelance}
	EmploymentTypeOther         = EmploymentType{value: employmentOther}
)

var employmentScores = map[EmploymentType]decimal.Decimal{
	EmploymentTypeFullTime:      decimal.NewFromInt(100),
	EmploymentTypeBusinessOwner: decimal.NewFromInt(85),
	EmploymentTypeSelfEmployed:  decimal.NewFromInt(80),
	EmploymentTypeContract:      decimal.NewFromInt(75),
	EmploymentTypePartTime:      decimal.NewFromInt(70),
	EmploymentTypeFreelance:     decimal.NewFromInt(65),
	EmploymentTypeOther:         decimal.NewFromInt(60),
}

var validEmploymentTypes = map[string]EmploymentType{
	employmentFullTime:      EmploymentTypeFullTime,
	employmentPartTime:      EmploymentTypePartTime,
	employmentSelfEmployed:  EmploymentTypeSelfEmployed,
	employmentBusinessOwner: EmploymentTypeBusinessOwner,
	employmentContract:      EmploymentTypeContract,
	employmentFreelance:     EmploymentTypeFreelance,
}

// ParseEmploymentType matches s case-insensitively, ignoring surrounding
// whitespace. Anything else yields EmploymentTypeOther.
func ParseEmploymentType(s string) EmploymentType {
	if v, ok := validEmploymentTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return EmploymentTypeOther
}

// Score returns the employment sub-score in [0,100].
func (e EmploymentType) Score() decimal.Decimal {
	if s, ok := employmentScores[e]; ok {
		return s
	}
	return employmentScores[EmploymentTypeOther]
}

func (e EmploymentType) String() string { return e.value }

// IsZero returns true if the type has not been initialised.
func (e EmploymentType) IsZero() bool { return e.value == "" }

func (e EmploymentType) Equal(other EmploymentType) bool { return e.value == other.value }

// ---------------------------------------------------------------------------
// EducationLevel – immutable value object
// ---------------------------------------------------------------------------

// EducationLevel is the highest completed education of an applicant.
type EducationLevel struct {
	value string
}

const (
	educationPostGraduate  = "post_graduate"
	educationGraduate      = "graduate"
	educationUnderGraduate = "under_graduate"
	educationDiploma       = "diploma"
	educationHighSchool    = "high_school"
	educationOther         = "other"
)

var (
	EducationLevelPostGraduate  = EducationLevel{value: educationPostGraduate}
	EducationLevelGraduate      = EducationLevel{value: educationGraduate}
	EducationLevelUnderGraduate = EducationLevel{value: educationUnderGraduate}
	EducationLevelDiploma       = EducationLevel{value: educationDiploma}
	EducationLevelHighSchool    = EducationLevel{value: educationHighSchool}
	EducationLevelOther         = EducationLevel{value: educationOther}
)

var educationScores = map[EducationLevel]decimal.Decimal{
	EducationLevelPostGraduate:  decimal.NewFromInt(100),
	EducationLevelGraduate:      decimal.NewFromInt(90),
	EducationLevelUnderGraduate: decimal.NewFromInt(80),
	EducationLevelDiploma:       decimal.NewFromInt(75),
	EducationLevelHighSchool:    decimal.NewFromInt(70),
	EducationLevelOther:         decimal.NewFromInt(70),
}

var validEducationLevels = map[string]EducationLevel{
	educationPostGraduate:  EducationLevelPostGraduate,
	educationGraduate:      EducationLevelGraduate,
	educationUnderGraduate: EducationLevelUnderGraduate,
	educationDiploma:       EducationLevelDiploma,
	educationHighSchool:    EducationLevelHighSchool,
}

// ParseEducationLevel matches s case-insensitively, ignoring surrounding
// whitespace. Anything else yields EducationLevelOther.
func ParseEducationLevel(s string) EducationLevel {
	if v, ok := validEducationLevels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v
	}
	return EducationLevelOther
}

// Score returns the education sub-score in [0,100].
func (e EducationLevel) Score() decimal.Decimal {
	if s, ok := educationScores[e]; ok {
		return s
	}
	return educationScores[EducationLevelOther]
}

func (e EducationLevel) String() string { return e.value }

func (e EducationLevel) IsZero() bool { return e.value == "" }

func (e EducationLevel) Equal(other EducationLevel) bool { return e.value == other.value }
