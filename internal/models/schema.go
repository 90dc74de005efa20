package models

import (
	"regexp"

	"nextgen-api/internal/common/validation"
)

// dcnPattern: alphanumeric with optional hyphens.
var dcnPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Sections lists the required top-level sections of a task payload in
// validation order. A missing section is one violation; validation still
// proceeds into the sections that are present.
var Sections = []string{"instructions", "document", "sources", "indicators"}

// SectionSchemas declares the field-level rules for every section. The
// tables are data, not behavior: the validation walker consults them, so
// per-field rules live in exactly one place.
var SectionSchemas = map[string]validation.Schema{
	"instructions": {
		Required: []string{"task_name"},
		Properties: map[string]validation.Property{
			"task_name": {
				Type:        "string",
				Description: "Identifier of the task to run",
				Enum:        TaskNames(),
			},
			"requestor_type": {
				Type:        "string",
				Description: "Who requested the task",
				Enum:        requestorTypeValues(),
			},
			"reading_level": {
				Type:        "string",
				Description: "Register of generated output",
				Enum:        readingLevelValues(),
			},
		},
	},
	"document": {
		Required: []string{"document_type", "metadata", "content"},
		Properties: map[string]validation.Property{
			"document_type": {
				Type:        "string",
				Description: "Clinical document classification",
				Enum:        documentTypeValues(),
			},
			"metadata": {
				Type:        "object",
				Description: "Document metadata, never null",
			},
			"content": {
				Type:        "string",
				Description: "Document text",
				NonEmpty:    true,
			},
			"prior_auth": {
				Type:        "string_array",
				Description: "Prior authorization references",
				NonEmpty:    true,
			},
			"interaction_id": {
				Type:        "string",
				Description: "Correlation identifier",
				Format:      "uuid",
			},
			"dcn": {
				Type:        "string",
				Description: "Document control number",
				Pattern:     dcnPattern,
			},
		},
	},
	"sources": {
		Properties: map[string]validation.Property{
			"guidelines": {
				Type:        "string_array",
				Description: "Clinical guideline excerpts",
				NonEmpty:    true,
			},
			"glossary": {
				Type:        "string_array",
				Description: "Term definitions",
				NonEmpty:    true,
			},
		},
	},
	"indicators": {
		Properties: map[string]validation.Property{
			"citation": {
				Type:        "boolean",
				Description: "Include citations in the output",
				Default:     false,
			},
			"reasoning": {
				Type:        "boolean",
				Description: "Include reasoning in the output",
				Default:     false,
			},
		},
	},
}
