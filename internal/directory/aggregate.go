package directory

import (
	"context"

	"github.com/ikkim/member-directory/pkg/logger"
)

// RatingsFetcher returns every rating value recorded for a business.
type RatingsFetcher func(ctx context.Context, businessID uint) ([]float64, error)

type PersonalView struct {
	ID              uint   `json:"mid"`
	DisplayName     string `json:"display_name"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	SecondaryEmail  string `json:"secondary_email"`
	ContactNo       string `json:"contact_no"`
	Status          string `json:"status"`
	AccessLevel     string `json:"access_level"`
	JoinDate        string `json:"join_date"`
	ProfileImage    string `json:"profile_image"`
	ProfileImageURL string `json:"profile_image_url"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zip_code"`
	Country         string `json:"country"`
	Website         string `json:"website"`
	Facebook        string `json:"facebook"`
	Instagram       string `json:"instagram"`
	LinkedIn        string `json:"linkedin"`
	Twitter         string `json:"twitter"`
	Kootam          string `json:"kootam"`
	MaritalStatus   string `json:"marital_status"`
}

type BusinessView struct {
	Business
	ProfileImageURL string      `json:"business_profile_image_url"`
	Gallery         []MediaItem `json:"gallery"`
	AverageRating   float64     `json:"average_rating"`
	ReviewCount     int         `json:"review_count"`
}

type FamilyView struct {
	Present          bool     `json:"present"`
	FatherName       string   `json:"father_name"`
	FatherContact    string   `json:"father_contact"`
	MotherName       string   `json:"mother_name"`
	MotherContact    string   `json:"mother_contact"`
	SpouseName       string   `json:"spouse_name"`
	SpouseContact    string   `json:"spouse_contact"`
	NumberOfChildren int      `json:"number_of_children"`
	Children         []string `json:"children"`
	Address          string   `json:"address"`
	// SpouseApplicable is false for unmarried members; spouse and children
	// data is still carried through.
	SpouseApplicable bool `json:"spouse_applicable"`
}

type ReferralView struct {
	Present bool   `json:"present"`
	Name    string `json:"referral_name"`
	Code    string `json:"referral_code"`
}

// DetailView is always fully populated: Businesses and Children are empty
// slices rather than nil, and absent family or referral data shows up as
// Present == false.
type DetailView struct {
	Personal   PersonalView   `json:"personal"`
	Businesses []BusinessView `json:"businesses"`
	Family     FamilyView     `json:"family"`
	Referral   ReferralView   `json:"referral"`
}

type Aggregator struct {
	baseURL string
	fetch   RatingsFetcher
}

// NewAggregator resolves media paths against baseURL. fetch may be nil, in
// which case every business reports no ratings.
func NewAggregator(baseURL string, fetch RatingsFetcher) *Aggregator {
	return &Aggregator{baseURL: baseURL, fetch: fetch}
}

func (a *Aggregator) Aggregate(ctx context.Context, r Record) DetailView {
	view := DetailView{
		Personal: PersonalView{
			ID:              r.ID,
			DisplayName:     r.DisplayName,
			FirstName:       r.FirstName,
			LastName:        r.LastName,
			Email:           r.Email,
			SecondaryEmail:  r.SecondaryEmail,
			ContactNo:       r.ContactNo,
			Status:          string(r.Status),
			AccessLevel:     string(r.AccessLevel),
			JoinDate:        r.JoinDate,
			ProfileImage:    r.ProfileImage,
			ProfileImageURL: JoinURL(a.baseURL, r.ProfileImage),
			Address:         r.Address,
			City:            r.City,
			State:           r.State,
			ZipCode:         r.ZipCode,
			Country:         r.Country,
			Website:         r.Website,
			Facebook:        r.Facebook,
			Instagram:       r.Instagram,
			LinkedIn:        r.LinkedIn,
			Twitter:         r.Twitter,
			Kootam:          r.Kootam,
			MaritalStatus:   r.MaritalStatus,
		},
		Businesses: make([]BusinessView, 0, len(r.Businesses)),
		Family:     FamilyView{Children: []string{}, SpouseApplicable: r.IsMarried()},
	}

	for _, b := range r.Businesses {
		view.Businesses = append(view.Businesses, a.business(ctx, b))
	}

	if f := r.Family; f != nil {
		view.Family = FamilyView{
			Present:          true,
			FatherName:       f.FatherName,
			FatherContact:    f.FatherContact,
			MotherName:       f.MotherName,
			MotherContact:    f.MotherContact,
			SpouseName:       f.SpouseName,
			SpouseContact:    f.SpouseContact,
			NumberOfChildren: f.NumberOfChildren,
			Children:         DecodeChildren(f.ChildrenNames),
			Address:          f.Address,
			SpouseApplicable: r.IsMarried(),
		}
	}

	if ref := r.Referral; ref != nil {
		view.Referral = ReferralView{Present: true, Name: ref.Name, Code: ref.Code}
	}

	return view
}

func (a *Aggregator) business(ctx context.Context, b Business) BusinessView {
	paths := ParseGallery(b.MediaGallery)
	gallery := make([]MediaItem, 0, len(paths))
	for _, p := range paths {
		gallery = append(gallery, MediaItem{Path: p, URL: JoinURL(a.baseURL, p), Kind: ClassifyMedia(p)})
	}

	bv := BusinessView{
		Business:        b,
		ProfileImageURL: JoinURL(a.baseURL, b.ProfileImage),
		Gallery:         gallery,
	}
	bv.AverageRating, bv.ReviewCount = a.ratings(ctx, b.ID)
	return bv
}

func (a *Aggregator) ratings(ctx context.Context, businessID uint) (float64, int) {
	if a.fetch == nil {
		return 0, 0
	}
	values, err := a.fetch(ctx, businessID)
	if err != nil {
		logger.Warn("Failed to fetch ratings for business", map[string]interface{}{
			"business_id": businessID,
			"error":       err.Error(),
		})
		return 0, 0
	}
	return Summarize(values)
}

// Summarize is the arithmetic mean and count of ratings.
func Summarize(ratings []float64) (average float64, count int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range ratings {
		sum += v
	}
	return sum / float64(len(ratings)), len(ratings)
}
