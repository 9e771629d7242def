package allure

// Status values emitted by Allure adapters. The set is open: adapters are
// free to write anything, so consumers must treat unknown values gracefully.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusBroken  = "broken"
	StatusSkipped = "skipped"
)

// Result is one parsed *-result.json file: a single test case execution as
// written by an Allure adapter.
type Result struct {
	UUID          string        `json:"uuid"`
	HistoryID     string        `json:"historyId"`
	Name          string        `json:"name"`
	FullName      string        `json:"fullName"`
	Status        string        `json:"status"`
	StatusDetails StatusDetails `json:"statusDetails"`
	Steps         []Step        `json:"steps"`
	Labels        []Label       `json:"labels"`
	Parameters    []Parameter   `json:"parameters"`
	Attachments   []Attachment  `json:"attachments"`
	// Start and Stop are epoch milliseconds; 0 means not recorded.
	Start int64 `json:"start"`
	Stop  int64 `json:"stop"`
}

// Step is a recursive step node. A step with an empty Name carries no
// usable structure and is dropped during translation.
type Step struct {
	Name        string       `json:"name"`
	Status      string       `json:"status"`
	Steps       []Step       `json:"steps"`
	Parameters  []Parameter  `json:"parameters"`
	Attachments []Attachment `json:"attachments"`
	Start       int64        `json:"start"`
	Stop        int64        `json:"stop"`
}

type StatusDetails struct {
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attachment references a file inside the results directory. Source is a
// path relative to that directory.
type Attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// LabelValue returns the value of the first label with the given name, or
// "" if the result carries no such label.
func (r *Result) LabelValue(name string) string {
	for _, l := range r.Labels {
		if l.Name == name {
			return l.Value
		}
	}
	return ""
}
