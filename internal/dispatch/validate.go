package dispatch

import (
	"nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/validation"
	"nextgen-api/internal/models"
)

// ValidateTaskRequest walks a raw payload tree and returns either the
// immutable typed request or the complete ordered violation list. The
// passes never short-circuit: a caller sees every problem in one round
// trip.
//
// Pass order:
//  1. structural: the four required sections exist and are objects
//  2. field-level: every declared field of every present section
//  3. cross-field: only over sections whose fields passed cleanly
func ValidateTaskRequest(raw map[string]interface{}) (*models.TaskRequest, []validation.Violation) {
	var violations []validation.Violation
	sections := make(map[string]map[string]interface{}, len(models.Sections))

	for _, name := range models.Sections {
		value, present := raw[name]
		if !present {
			violations = append(violations, validation.Violation{
				FieldPath: name,
				Kind:      errors.KindInvalidPayload,
				Message:   "required section missing",
			})
			continue
		}
		obj, ok := value.(map[string]interface{})
		if !ok {
			violations = append(violations, validation.Violation{
				FieldPath: name,
				Kind:      errors.KindInvalidPayload,
				Message:   "section must be an object",
			})
			continue
		}
		sections[name] = obj
		violations = append(violations, validation.ValidateSection(name, obj, models.SectionSchemas[name])...)
	}

	violations = append(violations, checkCrossFieldRules(sections, violations)...)

	if len(violations) > 0 {
		return nil, violations
	}
	return decodeRequest(sections), nil
}

// checkCrossFieldRules evaluates rules that read multiple fields jointly.
// A rule is skipped when any field it reads already failed: evaluating it
// over malformed input would produce a meaningless second violation.
func checkCrossFieldRules(sections map[string]map[string]interface{}, fieldViolations []validation.Violation) []validation.Violation {
	if validation.HasViolationFor(fieldViolations, "indicators") {
		return nil
	}
	indicators := sections["indicators"]

	citation := boolField(indicators, "citation")
	reasoning := boolField(indicators, "reasoning")
	if citation && !reasoning {
		return []validation.Violation{{
			FieldPath: "indicators",
			Kind:      errors.KindCrossFieldViolation,
			Message:   "citation output requires reasoning to be enabled",
		}}
	}
	return nil
}

// decodeRequest promotes validated sections to the typed entity. Only
// called after validation succeeds, so the type assertions cannot fail.
func decodeRequest(sections map[string]map[string]interface{}) *models.TaskRequest {
	instructions := sections["instructions"]
	document := sections["document"]
	sources := sections["sources"]
	indicators := sections["indicators"]

	return &models.TaskRequest{
		Instructions: models.Instructions{
			TaskName:      models.TaskName(stringField(instructions, "task_name")),
			RequestorType: models.RequestorType(stringField(instructions, "requestor_type")),
			ReadingLevel:  models.ReadingLevel(stringField(instructions, "reading_level")),
		},
		Document: models.Document{
			DocumentType:  models.DocumentType(stringField(document, "document_type")),
			Metadata:      document["metadata"].(map[string]interface{}),
			Content:       stringField(document, "content"),
			PriorAuth:     stringSliceField(document, "prior_auth"),
			InteractionID: stringField(document, "interaction_id"),
			DCN:           stringField(document, "dcn"),
		},
		Sources: models.Sources{
			Guidelines: stringSliceField(sources, "guidelines"),
			Glossary:   stringSliceField(sources, "glossary"),
		},
		Indicators: models.Indicators{
			Citation:  boolField(indicators, "citation"),
			Reasoning: boolField(indicators, "reasoning"),
		},
	}
}

func stringField(obj map[string]interface{}, key string) string {
	if value, ok := obj[key].(string); ok {
		return value
	}
	return ""
}

func boolField(obj map[string]interface{}, key string) bool {
	if value, ok := obj[key].(bool); ok {
		return value
	}
	return false
}

// stringSliceField keeps "omitted" (nil) distinct from "explicitly empty"
// (zero-length slice).
func stringSliceField(obj map[string]interface{}, key string) []string {
	raw, ok := obj[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, len(raw))
	for i, item := range raw {
		out[i], _ = item.(string)
	}
	return out
}
