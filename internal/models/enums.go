package models

// TaskName identifies a supported task. The set is closed: unrecognized
// values are a validation failure, never a silent default.
type TaskName string

const (
	TaskFiveWsExtraction TaskName = "five_ws_extraction"
	TaskSummarization    TaskName = "summarization"
)

// SupportedTasks is the static capability set exposed by the API, in a
// fixed order.
var SupportedTasks = []TaskName{
	TaskFiveWsExtraction,
	TaskSummarization,
}

// TaskNames returns the supported task identifiers as plain strings.
func TaskNames() []string {
	names := make([]string, len(SupportedTasks))
	for i, t := range SupportedTasks {
		names[i] = string(t)
	}
	return names
}

// DocumentType classifies the clinical document being processed.
type DocumentType string

const (
	DocumentReport           DocumentType = "report"
	DocumentClinicalNote     DocumentType = "clinical_note"
	DocumentDischargeSummary DocumentType = "discharge_summary"
	DocumentPriorAuthForm    DocumentType = "prior_auth_form"
)

// RequestorType identifies who asked for the task.
type RequestorType string

const (
	RequestorProvider RequestorType = "provider"
	RequestorPayer    RequestorType = "payer"
	RequestorPatient  RequestorType = "patient"
)

// ReadingLevel controls the register of generated output.
type ReadingLevel string

const (
	ReadingStandard   ReadingLevel = "standard"
	ReadingSimplified ReadingLevel = "simplified"
	ReadingClinical   ReadingLevel = "clinical"
)

func documentTypeValues() []string {
	return []string{
		string(DocumentReport),
		string(DocumentClinicalNote),
		string(DocumentDischargeSummary),
		string(DocumentPriorAuthForm),
	}
}

func requestorTypeValues() []string {
	return []string{
		string(RequestorProvider),
		string(RequestorPayer),
		string(RequestorPatient),
	}
}

func readingLevelValues() []string {
	return []string{
		string(ReadingStandard),
		string(ReadingSimplified),
		string(ReadingClinical),
	}
}
