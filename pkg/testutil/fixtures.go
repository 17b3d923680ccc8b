package testutil

// Fixed identifiers for deterministic testing.
const (
	TestApplicationID = "app-00000000-0000-0000-0000-000000000001"
	TestApplicantID   = "applicant-00000000-0000-0000-0000-000000000002"
	TestPaymentID     = "pay-00000000-0000-0000-0000-000000000003"
)
