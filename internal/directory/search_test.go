package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/member-directory/internal/app/model"
)

func searchFixture() []Record {
	return FromModels([]model.Member{
		{ID: 1, FirstName: "Arun", LastName: "Kumar", Kootam: "Kaadai",
			BusinessProfiles: []model.BusinessProfile{{CompanyName: "Sri Textiles", BusinessType: "Textiles"}}},
		{ID: 2, FirstName: "Meena", LastName: "Rao", Kootam: "Sellan",
			BusinessProfiles: []model.BusinessProfile{{CompanyName: "Meena Jewellers", BusinessType: "Jewellery"}}},
		{ID: 3, FirstName: "Ravi", LastName: "Iyer", Kootam: "Aadhi"},
		{ID: 4, FirstName: "Zoë", LastName: "Fernandes", Kootam: "Kaadai",
			BusinessProfiles: []model.BusinessProfile{{CompanyName: "ZF Textile Mills", BusinessType: "Manufacturing"}}},
	})
}

func TestMatch(t *testing.T) {
	records := searchFixture()

	tests := []struct {
		name    string
		query   string
		field   FieldGroup
		wantIDs []uint
	}{
		{name: "company name", query: "textile", field: FieldCompanyName, wantIDs: []uint{1, 4}},
		{name: "company category", query: "JEWEL", field: FieldCompanyCategory, wantIDs: []uint{2}},
		{name: "member name", query: "ra", field: FieldMemberName, wantIDs: []uint{2, 3}},
		{name: "kootam", query: "kaadai", field: FieldMemberKootam, wantIDs: []uint{1, 4}},
		{name: "any field", query: "mee", field: FieldNone, wantIDs: []uint{2}},
		{name: "any field across groups", query: "aadhi", field: FieldNone, wantIDs: []uint{3}},
		{name: "unicode case folding", query: "ZOË", field: FieldMemberName, wantIDs: []uint{4}},
		{name: "member without business never matches company", query: "a", field: FieldCompanyName, wantIDs: []uint{2}},
		{name: "no match", query: "xyz", field: FieldNone, wantIDs: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIDs, ids(Match(records, tt.query, tt.field)))
		})
	}
}

func TestMatch_ReviewIsAlwaysEmpty(t *testing.T) {
	records := searchFixture()

	for _, q := range []string{"", "arun", "   ", "textiles"} {
		got := Match(records, q, FieldReview)
		assert.NotNil(t, got)
		assert.Empty(t, got, "query %q", q)
	}
}

func TestMatch_EmptyQueryIsIdentity(t *testing.T) {
	records := searchFixture()

	for _, field := range []FieldGroup{FieldNone, FieldCompanyName, FieldCompanyCategory, FieldMemberName, FieldMemberKootam} {
		t.Run(string(field), func(t *testing.T) {
			assert.Equal(t, records, Match(records, "", field))
		})
	}
}

func TestParseFieldGroup(t *testing.T) {
	tests := []struct {
		in      string
		want    FieldGroup
		wantErr bool
	}{
		{in: "", want: FieldNone},
		{in: "None", want: FieldNone},
		{in: "CompanyName", want: FieldCompanyName},
		{in: " MemberKootam ", want: FieldMemberKootam},
		{in: "Review", want: FieldReview},
		{in: "companyname", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFieldGroup(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
