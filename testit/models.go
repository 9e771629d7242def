package testit

import "time"

// Outcome is the closed result vocabulary the service accepts.
type Outcome string

const (
	OutcomePassed  Outcome = "Passed"
	OutcomeFailed  Outcome = "Failed"
	OutcomeSkipped Outcome = "Skipped"
	OutcomeBlocked Outcome = "Blocked"
)

// TestRun is a named container for a batch of test result submissions.
type TestRun struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"projectId"`
}

type testRunSearchRequest struct {
	ProjectIDs []string `json:"projectIds"`
}

type testRunCreateRequest struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

// AutoTest is the service's persisted definition of a test case.
type AutoTest struct {
	ID         string     `json:"id"`
	ExternalID string     `json:"externalId"`
	ProjectID  string     `json:"projectId"`
	Name       string     `json:"name"`
	Namespace  string     `json:"namespace,omitempty"`
	Classname  string     `json:"classname,omitempty"`
	Steps      []StepSpec `json:"steps"`
	IsDeleted  bool       `json:"isDeleted"`
}

type autoTestSearchRequest struct {
	Filter autoTestSearchFilter `json:"filter"`
}

type autoTestSearchFilter struct {
	ProjectIDs  []string `json:"projectIds"`
	ExternalIDs []string `json:"externalIds"`
	IsDeleted   bool     `json:"isDeleted"`
}

// AutoTestCreate is the create-autotest payload. Unlike the update payload
// it also carries the execution outcome of the run that introduced the
// autotest.
type AutoTestCreate struct {
	ExternalID      string       `json:"externalId"`
	ProjectID       string       `json:"projectId"`
	Name            string       `json:"name"`
	Namespace       string       `json:"namespace,omitempty"`
	Classname       string       `json:"classname,omitempty"`
	Steps           []StepSpec   `json:"steps"`
	ConfigurationID string       `json:"configurationId"`
	Outcome         Outcome      `json:"outcome"`
	Duration        int64        `json:"duration"`
	StartedOn       *time.Time   `json:"startedOn"`
	CompletedOn     *time.Time   `json:"completedOn"`
	StepResults     []StepResult `json:"stepResults"`
}

// AutoTestUpdate is the update-autotest payload: a full replace of the
// definition fields only, never of execution outcomes.
type AutoTestUpdate struct {
	ID         string     `json:"id"`
	ExternalID string     `json:"externalId"`
	ProjectID  string     `json:"projectId"`
	Name       string     `json:"name"`
	Namespace  string     `json:"namespace,omitempty"`
	Classname  string     `json:"classname,omitempty"`
	Steps      []StepSpec `json:"steps"`
}

// StepSpec is the structure-only description of an expected step.
type StepSpec struct {
	Title string     `json:"title"`
	Steps []StepSpec `json:"steps,omitempty"`
}

// StepResult records what actually happened at one step.
type StepResult struct {
	Title       string            `json:"title"`
	Outcome     Outcome           `json:"outcome"`
	Duration    int64             `json:"duration"`
	Parameters  map[string]string `json:"parameters,omitempty"`
	Attachments []AttachmentRef   `json:"attachments,omitempty"`
	StepResults []StepResult      `json:"stepResults,omitempty"`
}

// TestResult is one element of the append-results payload.
type TestResult struct {
	ConfigurationID    string          `json:"configurationId"`
	AutoTestExternalID string          `json:"autoTestExternalId"`
	Outcome            Outcome         `json:"outcome"`
	Duration           int64           `json:"duration"`
	StartedOn          *time.Time      `json:"startedOn"`
	CompletedOn        *time.Time      `json:"completedOn"`
	StepResults        []StepResult    `json:"stepResults"`
	Attachments        []AttachmentRef `json:"attachments"`
	Message            string          `json:"message,omitempty"`
	Traces             string          `json:"traces,omitempty"`
}

// AttachmentRef is the token the service hands back for an uploaded file.
type AttachmentRef struct {
	ID string `json:"id"`
}
