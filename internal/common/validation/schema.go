// Package validation implements a declarative field-rule walker. Schemas
// describe fields; the walker applies them to an untyped input tree and
// accumulates every violation instead of stopping at the first one.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"nextgen-api/internal/common/errors"
)

// Schema describes one object-shaped section of the payload.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// Property declares the rules for a single field. Field-level rules only;
// rules spanning multiple fields live with the caller and run after the
// field pass succeeds for the fields they read.
type Property struct {
	Type        string // "string", "boolean", "object", "string_array"
	Description string
	Enum        []string // closed set, matched case-sensitively
	Pattern     *regexp.Regexp
	Format      string // "uuid"
	NonEmpty    bool   // strings: non-blank after trimming; arrays: each element non-blank
	MinItems    *int   // arrays: minimum cardinality when the field is present
	Default     interface{}
}

// Violation is one classified reason a payload failed validation.
type Violation struct {
	FieldPath string      `json:"field_path"`
	Kind      errors.Kind `json:"kind"`
	Message   string      `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.FieldPath, v.Message)
}

// Summarize renders violations as one operator-readable line.
func Summarize(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// ValidateSection checks every declared field of one section against the
// schema. Paths in the result are prefixed with the section name
// ("document.dcn"). Each failing field contributes exactly one violation;
// the pass never short-circuits, so the caller sees the complete set.
func ValidateSection(section string, input map[string]interface{}, schema Schema) []Violation {
	var violations []Violation

	for _, name := range sortedFieldNames(schema) {
		prop := schema.Properties[name]
		path := section + "." + name

		value, present := input[name]
		if !present {
			if isRequired(schema, name) {
				violations = append(violations, Violation{
					FieldPath: path,
					Kind:      errors.KindInvalidPayload,
					Message:   "required field missing",
				})
			}
			continue
		}

		if v := checkField(path, value, prop); v != nil {
			violations = append(violations, *v)
		}
	}

	return violations
}

// checkField applies type, format and content rules to one present field.
// At most one violation per field: the first broken rule in declaration
// order describes the problem.
func checkField(path string, value interface{}, prop Property) *Violation {
	fail := func(msg string) *Violation {
		return &Violation{FieldPath: path, Kind: errors.KindInvalidPayload, Message: msg}
	}

	switch prop.Type {
	case "string":
		str, ok := value.(string)
		if !ok {
			return fail(fmt.Sprintf("expected string, got %T", value))
		}
		if prop.NonEmpty && strings.TrimSpace(str) == "" {
			return fail("must be a non-empty string")
		}
		if len(prop.Enum) > 0 && !enumContains(prop.Enum, str) {
			return fail(fmt.Sprintf("must be one of %v", prop.Enum))
		}
		if prop.Pattern != nil && !prop.Pattern.MatchString(str) {
			return fail(fmt.Sprintf("must match pattern %s", prop.Pattern.String()))
		}
		if prop.Format == "uuid" {
			if _, err := uuid.Parse(str); err != nil {
				return fail("must be a UUID")
			}
		}

	case "boolean":
		if _, ok := value.(bool); !ok {
			return fail(fmt.Sprintf("expected boolean, got %T", value))
		}

	case "object":
		if value == nil {
			return fail("must not be null")
		}
		if _, ok := value.(map[string]interface{}); !ok {
			return fail(fmt.Sprintf("expected object, got %T", value))
		}

	case "string_array":
		items, ok := value.([]interface{})
		if !ok {
			return fail(fmt.Sprintf("expected array of strings, got %T", value))
		}
		// An explicitly empty array is valid unless the schema demands
		// minimum cardinality for a present field.
		if prop.MinItems != nil && len(items) < *prop.MinItems {
			return fail(fmt.Sprintf("must contain at least %d element(s)", *prop.MinItems))
		}
		for i, item := range items {
			str, ok := item.(string)
			if !ok {
				return fail(fmt.Sprintf("element %d: expected string, got %T", i, item))
			}
			if prop.NonEmpty && strings.TrimSpace(str) == "" {
				return fail(fmt.Sprintf("element %d: must be a non-empty string", i))
			}
		}

	default:
		return fail(fmt.Sprintf("unsupported schema type %q", prop.Type))
	}

	return nil
}

// enumContains is a case-sensitive membership test; no coercion.
func enumContains(enum []string, value string) bool {
	for _, member := range enum {
		if value == member {
			return true
		}
	}
	return false
}

func isRequired(schema Schema, field string) bool {
	for _, name := range schema.Required {
		if name == field {
			return true
		}
	}
	return false
}

// sortedFieldNames keeps violation order deterministic across calls so the
// same payload always yields the same violation sequence.
func sortedFieldNames(schema Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasViolationFor reports whether any violation touches the given path
// prefix. Cross-field rules use this to skip sections whose fields are
// already known to be malformed.
func HasViolationFor(violations []Violation, prefix string) bool {
	for _, v := range violations {
		if v.FieldPath == prefix || strings.HasPrefix(v.FieldPath, prefix+".") {
			return true
		}
	}
	return false
}
