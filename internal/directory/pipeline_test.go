package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/member-directory/internal/app/model"
)

func TestPipeline_AdvancedViewerNameSearch(t *testing.T) {
	names := []struct {
		first, last string
		basic       bool
	}{
		{"Priya", "Iyer", true},
		{"Bhavani", "Shankar", false},
		{"Ravi", "Kumar", false},
		{"Meera", "Rao", true},
		{"Suresh", "Babu", false},
		{"Deepa", "Raj", false},
		{"Kavya", "Reddy", false},
		{"Anand", "Kumar", true},
		{"Lokesh", "Varma", false},
		{"Vijay", "Murthy", false},
		{"Sita", "Devi", false},
		{"Mohit", "Sethi", false},
	}

	var members []model.Member
	for i, n := range names {
		m := model.Member{ID: uint(i + 1), FirstName: n.first, LastName: n.last, Status: model.StatusApproved, AccessLevel: model.AccessAdvanced}
		if n.basic {
			m.AccessLevel = model.AccessBasic
		}
		members = append(members, m)
	}
	all := FromModels(members)
	require.Len(t, all, 12)

	viewer := FromModel(&model.Member{ID: 100, FirstName: "Admin", Status: model.StatusApproved, AccessLevel: model.AccessAdvanced})

	result := NewPipeline(NewSorter("en")).Run(&viewer, all, Query{Field: FieldMemberName, Text: "an"})

	assert.Equal(t, ViewAll, result.AllowedView)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Anand Kumar", result.Records[0].DisplayName)
	assert.Equal(t, "Bhavani Shankar", result.Records[1].DisplayName)

	p := NewPaginator(DefaultPageSize)
	p.Bind(ViewKey{ViewerID: viewer.ID, Field: FieldMemberName, Query: "an"}, len(result.Records))
	assert.Equal(t, 2, p.Visible())
	assert.Len(t, p.Page(result.Records), 2)
	assert.False(t, p.HasMore())
}

func TestPipeline_DecodedPendingViewer(t *testing.T) {
	all, err := DecodeMembers([]byte(`[
		{"mid": 1, "first_name": "Arun", "status": "Approved", "access_level": "Advanced",
		 "BusinessProfiles": [{"id": 1, "company_name": "Zen Foods", "business_type": "Food"}]},
		{"mid": 2, "first_name": "Bala", "status": "Approved", "access_level": "Advanced"},
		{"mid": 3, "first_name": "Chitra", "status": "Pending", "access_level": "Basic",
		 "BusinessProfiles": [{"id": 2, "company_name": "Aroma Foods", "business_type": "Food"}]},
		{"mid": 4, "first_name": "Dinesh", "status": "Pending", "access_level": "Basic",
		 "BusinessProfiles": [{"id": 3, "company_name": "Dinesh Motors", "business_type": ""}]}
	]`))
	require.NoError(t, err)
	viewer := all[3]

	result := NewPipeline(nil).Run(&viewer, all, Query{Field: FieldCompanyName, Text: "foods"})

	assert.Equal(t, ViewBusiness, result.AllowedView)
	assert.Equal(t, []uint{3, 1}, ids(result.Records))
}
