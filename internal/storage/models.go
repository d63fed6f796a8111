package storage

// CandidateRow is a row of the candidate table as written by SaveCandidate.
type CandidateRow struct {
	CandidateID         string  `json:"candidate_id"`
	Name                string  `json:"name"`
	PhoneNumber         string  `json:"phone_number"`
	EmailID             string  `json:"email_id"`
	RelevantExperience  float64 `json:"relevant_experience"`
	SkillSet            string  `json:"skill_set"`
	CurrentJobRole      string  `json:"current_job_role"`
	CurrentWorkLocation string  `json:"current_work_location"`
	AccountActive       bool    `json:"account_active"`
	Deleted             bool    `json:"deleted"`
	TenantID            string  `json:"tenant_id"`
	TermsAccepted       bool    `json:"terms_and_policy_accepted"`
}

// ExperienceValue is the outcome of coercing a free-text experience phrase to years.
type ExperienceValue struct {
	Years     float64
	Malformed bool // input was non-empty but carried no leading number
}

// identitySpace is a table whose email column must not already hold a candidate's address.
type identitySpace struct {
	Table  string
	Column string
}

// identitySpaces are checked in order before every insert.
var identitySpaces = []identitySpace{
	{Table: "candidate", Column: "email_id"},
	{Table: "company", Column: "company_email_id"},
	{Table: "users", Column: "email_id"},
}
