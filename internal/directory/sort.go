package directory

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders records by a field-group projection using the collation
// rules of a locale.
type Sorter struct {
	tag language.Tag
}

// NewSorter falls back to English when locale does not parse.
func NewSorter(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Sorter{tag: tag}
}

func (s *Sorter) Locale() string {
	return s.tag.String()
}

// Sort returns a stably sorted copy of records. FieldNone and FieldReview
// leave the order as given.
func (s *Sorter) Sort(records []Record, field FieldGroup) []Record {
	if field == FieldNone || field == FieldReview {
		return records
	}

	// Collators keep scratch buffers and are not safe to share.
	c := collate.New(s.tag)
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return c.CompareString(projection(a, field), projection(b, field))
	})
	return sorted
}
