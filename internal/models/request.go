// Package models holds the typed entities of the NextGen task API and the
// declarative schema the validation pass is driven by. Entities are built
// only after every rule holds and are read-only from then on.
package models

// Instructions describes what the caller wants done.
type Instructions struct {
	TaskName      TaskName      `json:"task_name"`
	RequestorType RequestorType `json:"requestor_type,omitempty"`
	ReadingLevel  ReadingLevel  `json:"reading_level,omitempty"`
}

// Document is the clinical document a task operates on.
type Document struct {
	DocumentType  DocumentType           `json:"document_type"`
	Metadata      map[string]interface{} `json:"metadata"`
	Content       string                 `json:"content"`
	PriorAuth     []string               `json:"prior_auth,omitempty"`
	InteractionID string                 `json:"interaction_id,omitempty"`
	DCN           string                 `json:"dcn,omitempty"`
}

// Sources carries optional supporting material. An omitted field stays nil;
// a field sent as an explicit empty array decodes to an empty slice. The
// two are distinct on the wire and both valid.
type Sources struct {
	Guidelines []string `json:"guidelines,omitempty"`
	Glossary   []string `json:"glossary,omitempty"`
}

// Indicators toggles optional output features. Citation output is only
// meaningful alongside reasoning output; the combination citation=true,
// reasoning=false is rejected during validation rather than coerced.
type Indicators struct {
	Citation  bool `json:"citation"`
	Reasoning bool `json:"reasoning"`
}

// TaskRequest is the fully validated request. Instances exist only after
// validation succeeds and are never mutated afterwards.
type TaskRequest struct {
	Instructions Instructions `json:"instructions"`
	Document     Document     `json:"document"`
	Sources      Sources      `json:"sources"`
	Indicators   Indicators   `json:"indicators"`
}
