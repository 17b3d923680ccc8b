package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/application/usecase"
	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/service"
)

var (
	employmentChoices = []string{"full_time", "part_time", "self_employed", "business_owner", "contract", "freelance", "other"}
	educationChoices  = []string{"post_graduate", "graduate", "under_graduate", "diploma", "high_school", "other"}
)

func newScoreCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Assess an applicant profile and print the report as JSON",
		Long: `Assess an applicant profile and print the report as JSON.

The profile comes from flags (or ASSESSCTL_* environment variables and the
config file), from a YAML/JSON file given with --file, or from interactive
prompts with --interactive.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runScore(cmd)
		},
	}

	f := cmd.Flags()
	f.String("income", "0", "monthly income")
	f.String("employment", "", "employment type ("+strings.Join(employmentChoices, ", ")+")")
	f.String("education", "", "education level ("+strings.Join(educationChoices, ", ")+")")
	f.Int("experience", 0, "work experience in years")
	f.String("loan-amount", "0", "requested loan amount")
	f.Int("tenure", model.DefaultLoanTenure, "loan tenure in months")
	f.StringP("file", "f", "", "read the profile from a YAML or JSON file")
	f.BoolP("interactive", "i", false, "prompt for every profile field")
	f.Bool("schedule", false, "include the repayment schedule")
	f.Bool("breakdown", true, "include the score breakdown")

	for _, name := range []string{"income", "employment", "education", "experience", "loan-amount", "tenure", "file", "interactive", "schedule", "breakdown"} {
		_ = c.v.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

func (c *cli) runScore(cmd *cobra.Command) error {
	logger := c.logger(cmd)

	var (
		profile dto.ProfileInput
		err     error
	)
	switch {
	case c.v.GetBool("interactive"):
		profile, err = promptProfile(cmd.InOrStdin(), cmd.ErrOrStderr())
	case c.v.GetString("file") != "":
		profile, err = loadProfileFile(c.v.GetString("file"))
	default:
		profile, err = c.profileFromFlags()
	}
	if err != nil {
		return err
	}
	logger.Debug("scoring profile", "income", profile.MonthlyIncome.String(), "loan_amount", profile.LoanAmount.String())

	resp, err := usecase.NewPreviewAssessmentUseCase(service.NewAssessmentEngine()).
		Execute(cmd.Context(), dto.PreviewAssessmentRequest{Profile: profile})
	if err != nil {
		return err
	}
	if !c.v.GetBool("schedule") {
		resp.Schedule = nil
	}
	if !c.v.GetBool("breakdown") {
		resp.Breakdown = nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func (c *cli) profileFromFlags() (dto.ProfileInput, error) {
	income, err := decimal.NewFromString(c.v.GetString("income"))
	if err != nil {
		return dto.ProfileInput{}, fmt.Errorf("invalid --income: %w", err)
	}
	loan, err := decimal.NewFromString(c.v.GetString("loan-amount"))
	if err != nil {
		return dto.ProfileInput{}, fmt.Errorf("invalid --loan-amount: %w", err)
	}
	return dto.ProfileInput{
		MonthlyIncome:  income,
		EmploymentType: c.v.GetString("employment"),
		EducationLevel: c.v.GetString("education"),
		WorkExperience: c.v.GetInt("experience"),
		LoanAmount:     loan,
		LoanTenure:     c.v.GetInt("tenure"),
	}, nil
}

// loadProfileFile reads a profile from YAML or JSON. The document is
// re-encoded as JSON so amounts go through decimal's JSON decoding whether
// they were written as numbers or strings.
func loadProfileFile(path string) (dto.ProfileInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return dto.ProfileInput{}, fmt.Errorf("read profile: %w", err)
	}
	return decodeProfile(raw)
}

func decodeProfile(raw []byte) (dto.ProfileInput, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return dto.ProfileInput{}, fmt.Errorf("parse profile: %w", err)
	}
	if doc == nil {
		return dto.ProfileInput{}, errors.New("parse profile: empty document")
	}

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return dto.ProfileInput{}, fmt.Errorf("parse profile: %w", err)
	}
	var p dto.ProfileInput
	if err := json.Unmarshal(asJSON, &p); err != nil {
		return dto.ProfileInput{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

func promptProfile(in io.Reader, out io.Writer) (dto.ProfileInput, error) {
	stdin := io.NopCloser(in)
	stdout := nopWriteCloser{out}

	ask := func(label, def string, validate promptui.ValidateFunc) (string, error) {
		p := promptui.Prompt{Label: label, Default: def, Validate: validate, Stdin: stdin, Stdout: stdout}
		return p.Run()
	}
	choose := func(label string, items []string) (string, error) {
		s := promptui.Select{Label: label, Items: items, Stdin: stdin, Stdout: stdout}
		_, v, err := s.Run()
		return v, err
	}

	var p dto.ProfileInput
	income, err := ask("Monthly income", "", validateAmount)
	if err != nil {
		return p, err
	}
	p.MonthlyIncome, _ = decimal.NewFromString(income)

	if p.EmploymentType, err = choose("Employment type", employmentChoices); err != nil {
		return p, err
	}
	if p.EducationLevel, err = choose("Education level", educationChoices); err != nil {
		return p, err
	}

	exp, err := ask("Work experience (years)", "0", validateCount)
	if err != nil {
		return p, err
	}
	p.WorkExperience, _ = strconv.Atoi(exp)

	loan, err := ask("Loan amount", "", validateAmount)
	if err != nil {
		return p, err
	}
	p.LoanAmount, _ = decimal.NewFromString(loan)

	tenure, err := ask("Loan tenure (months)", strconv.Itoa(model.DefaultLoanTenure), validateCount)
	if err != nil {
		return p, err
	}
	p.LoanTenure, _ = strconv.Atoi(tenure)

	return p, nil
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("enter a number")
	}
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
