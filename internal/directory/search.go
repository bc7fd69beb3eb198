package directory

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// FieldGroup selects which projection of a record search and sort use.
type FieldGroup string

const (
	FieldNone            FieldGroup = ""
	FieldCompanyName     FieldGroup = "CompanyName"
	FieldCompanyCategory FieldGroup = "CompanyCategory"
	FieldMemberName      FieldGroup = "MemberName"
	FieldMemberKootam    FieldGroup = "MemberKootam"
	FieldReview          FieldGroup = "Review"
)

// ParseFieldGroup accepts the query-string names of the field groups. The
// empty string and "None" both mean no field group.
func ParseFieldGroup(s string) (FieldGroup, error) {
	switch g := FieldGroup(strings.TrimSpace(s)); g {
	case FieldNone, "None":
		return FieldNone, nil
	case FieldCompanyName, FieldCompanyCategory, FieldMemberName, FieldMemberKootam, FieldReview:
		return g, nil
	}
	return FieldNone, fmt.Errorf("unknown field group %q", s)
}

// projection returns the text a field group searches and sorts on. It is
// not defined for FieldNone or FieldReview.
func projection(r Record, field FieldGroup) string {
	switch field {
	case FieldCompanyName:
		return r.PrimaryBusiness.CompanyName
	case FieldCompanyCategory:
		return r.PrimaryBusiness.BusinessType
	case FieldMemberName:
		return r.DisplayName
	case FieldMemberKootam:
		return r.Kootam
	}
	return ""
}

var anyFieldGroups = []FieldGroup{FieldCompanyName, FieldCompanyCategory, FieldMemberName, FieldMemberKootam}

// Match keeps the records whose field-group projection contains query,
// ignoring case. FieldNone matches against any of the projections.
// FieldReview always yields an empty result. A blank query returns records
// unchanged for every other group.
func Match(records []Record, query string, field FieldGroup) []Record {
	if field == FieldReview {
		// Review search has no backing data.
		return []Record{}
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}

	fold := cases.Fold()
	needle := fold.String(query)
	contains := func(s string) bool {
		return s != "" && strings.Contains(fold.String(s), needle)
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if field == FieldNone {
			for _, g := range anyFieldGroups {
				if contains(projection(r, g)) {
					out = append(out, r)
					break
				}
			}
			continue
		}
		if contains(projection(r, field)) {
			out = append(out, r)
		}
	}
	return out
}
