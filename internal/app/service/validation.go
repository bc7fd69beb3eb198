package service

import (
	"sort"
	"strings"
)

// ValidationError collects per-field problems found before any write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type validator struct {
	fields map[string]string
}

func newValidator() *validator {
	return &validator{fields: map[string]string{}}
}

// check records msg for field when ok is false. The first message per
// field wins.
func (v *validator) check(ok bool, field, msg string) {
	if ok {
		return
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = msg
	}
}

func (v *validator) required(value, field string) {
	v.check(strings.TrimSpace(value) != "", field, field+" is required")
}

func (v *validator) email(value, field string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	at := strings.Index(value, "@")
	v.check(at > 0 && at < len(value)-1 && !strings.ContainsAny(value, " \t"), field, "must be a valid email address")
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
