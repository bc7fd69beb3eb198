package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessLevelFor(t *testing.T) {
	tests := []struct {
		status MemberStatus
		want   AccessLevel
	}{
		{StatusApproved, AccessAdvanced},
		{StatusPending, AccessBasic},
		{StatusRejected, AccessBasic},
		{MemberStatus(""), AccessBasic},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, AccessLevelFor(tt.status))
		})
	}
}

func TestMember_SetStatus(t *testing.T) {
	m := &Member{}

	m.SetStatus(StatusApproved)
	assert.Equal(t, AccessAdvanced, m.AccessLevel)

	m.SetStatus(StatusRejected)
	assert.Equal(t, AccessBasic, m.AccessLevel)
}

func TestMember_BeforeSaveDerivesAccessLevel(t *testing.T) {
	m := &Member{Status: StatusApproved, AccessLevel: AccessBasic}

	assert.NoError(t, m.BeforeSave(nil))
	assert.Equal(t, AccessAdvanced, m.AccessLevel)
	assert.NotEmpty(t, m.JoinDate)

	empty := &Member{}
	assert.NoError(t, empty.BeforeSave(nil))
	assert.Equal(t, StatusPending, empty.Status)
	assert.Equal(t, AccessBasic, empty.AccessLevel)
}

func TestMember_FullNameAndMarriage(t *testing.T) {
	assert.Equal(t, "Arun Kumar", (&Member{FirstName: " Arun", LastName: "Kumar "}).FullName())
	assert.Equal(t, "", (&Member{}).FullName())
	assert.True(t, (&Member{MaritalStatus: "Married"}).IsMarried())
	assert.False(t, (&Member{MaritalStatus: "single"}).IsMarried())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, MemberStatus("Archived").Valid())
	assert.True(t, RatingApproved.Valid())
	assert.False(t, RatingStatus("Approved").Valid())
}
