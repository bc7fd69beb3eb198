package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type directoryFixture struct {
	*businessFixture
	directory DirectoryService
}

func setupDirectoryFixture(t *testing.T) *directoryFixture {
	testDB := setupServiceDB(t)
	f := newBusinessFixture(t, testDB)

	aggregator := directory.NewAggregator("https://cdn.example.com", f.ratings.Fetcher())
	return &directoryFixture{
		businessFixture: f,
		directory: NewDirectoryService(
			repository.NewMemberRepository(testDB),
			directory.NewPipeline(directory.NewSorter("en")),
			aggregator,
			directory.DefaultPageSize,
		),
	}
}

func TestDirectoryService_Browse(t *testing.T) {
	f := setupDirectoryFixture(t)

	names := []string{"Gita", "Bala", "Chitra", "Anand", "Esha", "Dev", "Farah"}
	for i, name := range names {
		in := registerInput(name, fmt.Sprintf("m%d@example.com", i))
		in.Status = model.StatusApproved
		if i%2 == 0 {
			in.Businesses = []BusinessInput{{CompanyName: name + " Co", BusinessType: "Retail"}}
		}
		_, err := f.members.Register(in, true)
		require.NoError(t, err)
	}

	viewerIn := registerInput("Viewer", "viewer@example.com")
	viewerIn.Status = model.StatusApproved
	viewer, err := f.members.Register(viewerIn, true)
	require.NoError(t, err)

	t.Run("First page sorted by name", func(t *testing.T) {
		res, err := f.directory.Browse(viewer.ID, directory.Query{Field: directory.FieldMemberName}, 1)
		require.NoError(t, err)
		assert.Equal(t, directory.ViewAll, res.AllowedView)
		assert.Equal(t, 8, res.Total, "seven approved members plus the pending owner")
		assert.True(t, res.HasMore)
		require.Len(t, res.Members, 5)
		assert.Equal(t, "Anand", res.Members[0].FirstName)
		assert.Equal(t, "Bala", res.Members[1].FirstName)
	})

	t.Run("Second page shows the rest", func(t *testing.T) {
		res, err := f.directory.Browse(viewer.ID, directory.Query{Field: directory.FieldMemberName}, 2)
		require.NoError(t, err)
		assert.Len(t, res.Members, 8)
		assert.False(t, res.HasMore)
	})

	t.Run("Search narrows", func(t *testing.T) {
		res, err := f.directory.Browse(viewer.ID, directory.Query{Field: directory.FieldCompanyName, Text: "co"}, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Total)
	})

	t.Run("Pending viewer sees typed businesses only", func(t *testing.T) {
		res, err := f.directory.Browse(f.owner.ID, directory.Query{}, 3)
		require.NoError(t, err)
		assert.Equal(t, directory.ViewBusiness, res.AllowedView)
		assert.Equal(t, 4, res.Total)
	})

	t.Run("Unknown viewer", func(t *testing.T) {
		_, err := f.directory.Browse(9999, directory.Query{}, 1)
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestDirectoryService_Detail(t *testing.T) {
	f := setupDirectoryFixture(t)

	business, err := f.businesses.Create(f.owner.ID, BusinessInput{
		CompanyName: "Acme",
		Gallery:     []string{"uploads/a.jpg", "uploads/b.mp4", "uploads/c.pdf"},
	})
	require.NoError(t, err)
	for _, v := range []float64{4, 5} {
		_, err := f.ratings.Create(f.owner.ID, business.ID, v, "")
		require.NoError(t, err)
	}

	view, err := f.directory.Detail(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owner K", view.Personal.DisplayName)
	assert.False(t, view.Family.Present)
	assert.Equal(t, []string{}, view.Family.Children)
	assert.False(t, view.Referral.Present)

	require.Len(t, view.Businesses, 1)
	b := view.Businesses[0]
	assert.Equal(t, 4.5, b.AverageRating)
	assert.Equal(t, 2, b.ReviewCount)
	require.Len(t, b.Gallery, 3)
	assert.Equal(t, "https://cdn.example.com/uploads/a.jpg", b.Gallery[0].URL)
	assert.Equal(t, directory.MediaVideo, b.Gallery[1].Kind)
	assert.Equal(t, directory.MediaFile, b.Gallery[2].Kind)

	_, err = f.directory.Detail(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
