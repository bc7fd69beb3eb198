package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/pkg/logger"
)

// looseString accepts a JSON string, number, bool or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		// Objects where a scalar belongs are dropped, not fatal.
		*s = ""
		return nil
	}
	*s = looseString(data)
	return nil
}

// looseUint accepts a whole JSON number or numeric string that fits in a
// uint. Anything else is zero.
type looseUint uint

func (u *looseUint) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if v, err := strconv.ParseUint(raw, 10, 0); err == nil {
		*u = looseUint(v)
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 || n != math.Trunc(n) || n >= float64(math.MaxUint) {
		*u = 0
		return nil
	}
	*u = looseUint(n)
	return nil
}

type looseInt int

func (i *looseInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || n >= float64(math.MaxInt) || n < float64(math.MinInt) {
		*i = 0
		return nil
	}
	*i = looseInt(n)
	return nil
}

// looseJSONText keeps children_names as JSON text whether the API sent it
// as an encoded string or as a bare array.
type looseJSONText string

func (t *looseJSONText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*t = ""
			return nil
		}
		*t = looseJSONText(v)
	default:
		*t = looseJSONText(data)
	}
	return nil
}

type wireBusiness struct {
	ID             looseUint   `json:"id"`
	MemberID       looseUint   `json:"mid"`
	CompanyName    looseString `json:"company_name"`
	BusinessType   looseString `json:"business_type"`
	Role           looseString `json:"role"`
	CompanyAddress looseString `json:"company_address"`
	City           looseString `json:"city"`
	State          looseString `json:"state"`
	ZipCode        looseString `json:"zip_code"`
	Experience     looseString `json:"experience"`
	StaffSize      looseString `json:"staff_size"`
	Contact        looseString `json:"contact"`
	Email          looseString `json:"email"`
	Source         looseString `json:"source"`
	ProfileImage   looseString `json:"business_profile_image"`
	MediaGallery   looseString `json:"media_gallery"`
}

type wireFamily struct {
	FatherName       looseString   `json:"father_name"`
	FatherContact    looseString   `json:"father_contact"`
	MotherName       looseString   `json:"mother_name"`
	MotherContact    looseString   `json:"mother_contact"`
	SpouseName       looseString   `json:"spouse_name"`
	SpouseContact    looseString   `json:"spouse_contact"`
	NumberOfChildren looseInt      `json:"number_of_children"`
	ChildrenNames    looseJSONText `json:"children_names"`
	Address          looseString   `json:"address"`
}

type wireReferral struct {
	Name looseString `json:"referral_name"`
	Code looseString `json:"referral_code"`
}

type wireMember struct {
	ID             looseUint   `json:"mid"`
	FirstName      looseString `json:"first_name"`
	LastName       looseString `json:"last_name"`
	Email          looseString `json:"email"`
	SecondaryEmail looseString `json:"secondary_email"`
	ContactNo      looseString `json:"contact_no"`
	Status         looseString `json:"status"`
	AccessLevel    looseString `json:"access_level"`
	ProfileImage   looseString `json:"profile_image"`
	JoinDate       looseString `json:"join_date"`
	Address        looseString `json:"address"`
	City           looseString `json:"city"`
	State          looseString `json:"state"`
	ZipCode        looseString `json:"zip_code"`
	Country        looseString `json:"country"`
	Website        looseString `json:"website"`
	Facebook       looseString `json:"facebook"`
	Instagram      looseString `json:"instagram"`
	LinkedIn       looseString `json:"linkedin"`
	Twitter        looseString `json:"twitter"`
	Kootam         looseString `json:"kootam"`
	MaritalStatus  looseString `json:"marital_status"`

	// Raw so that a wrong shape for one association does not fail the member.
	BusinessProfiles json.RawMessage `json:"BusinessProfiles"`
	MemberFamily     json.RawMessage `json:"MemberFamily"`
	Referral         json.RawMessage `json:"Referral"`
}

// DecodeMember normalizes one raw member object as served by the member
// endpoints. Missing or malformed associations become empty defaults; only
// a payload that is not a JSON object at all is an error.
func DecodeMember(data []byte) (Record, error) {
	var w wireMember
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("decode member: %w", err)
	}
	return w.record(), nil
}

// DecodeMembers normalizes a raw member array. A JSON null decodes to an
// empty list. Elements that are not objects are skipped; only a payload
// that is not an array is an error.
func DecodeMembers(data []byte) ([]Record, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			logger.Warn("Skipping malformed member in list", map[string]interface{}{
				"index": i,
			})
			continue
		}
		r, err := DecodeMember(raw)
		if err != nil {
			logger.Warn("Skipping malformed member in list", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func (w wireMember) record() Record {
	r := Record{
		ID:             uint(w.ID),
		FirstName:      string(w.FirstName),
		LastName:       string(w.LastName),
		DisplayName:    displayName(string(w.FirstName), string(w.LastName)),
		Email:          string(w.Email),
		SecondaryEmail: string(w.SecondaryEmail),
		ContactNo:      string(w.ContactNo),
		Status:         model.MemberStatus(w.Status),
		AccessLevel:    model.AccessLevel(w.AccessLevel),
		ProfileImage:   string(w.ProfileImage),
		JoinDate:       string(w.JoinDate),
		Address:        string(w.Address),
		City:           string(w.City),
		State:          string(w.State),
		ZipCode:        string(w.ZipCode),
		Country:        string(w.Country),
		Website:        string(w.Website),
		Facebook:       string(w.Facebook),
		Instagram:      string(w.Instagram),
		LinkedIn:       string(w.LinkedIn),
		Twitter:        string(w.Twitter),
		Kootam:         string(w.Kootam),
		MaritalStatus:  string(w.MaritalStatus),
	}

	var wbs []wireBusiness
	if !decodeOptional(w.BusinessProfiles, &wbs) {
		wbs = nil
	}
	businesses := make([]Business, 0, len(wbs))
	for _, b := range wbs {
		businesses = append(businesses, Business{
			ID:             uint(b.ID),
			MemberID:       uint(b.MemberID),
			CompanyName:    string(b.CompanyName),
			BusinessType:   string(b.BusinessType),
			Role:           string(b.Role),
			CompanyAddress: string(b.CompanyAddress),
			City:           string(b.City),
			State:          string(b.State),
			ZipCode:        string(b.ZipCode),
			Experience:     string(b.Experience),
			StaffSize:      string(b.StaffSize),
			Contact:        string(b.Contact),
			Email:          string(b.Email),
			Source:         string(b.Source),
			ProfileImage:   string(b.ProfileImage),
			MediaGallery:   string(b.MediaGallery),
			present:        true,
		})
	}

	var wf wireFamily
	if decodeOptional(w.MemberFamily, &wf) {
		r.Family = &Family{
			FatherName:       string(wf.FatherName),
			FatherContact:    string(wf.FatherContact),
			MotherName:       string(wf.MotherName),
			MotherContact:    string(wf.MotherContact),
			SpouseName:       string(wf.SpouseName),
			SpouseContact:    string(wf.SpouseContact),
			NumberOfChildren: int(wf.NumberOfChildren),
			ChildrenNames:    string(wf.ChildrenNames),
			Address:          string(wf.Address),
		}
	}

	var wr wireReferral
	if decodeOptional(w.Referral, &wr) {
		r.Referral = &Referral{Name: string(wr.Name), Code: string(wr.Code)}
	}

	return withBusinesses(r, businesses)
}

// decodeOptional reports whether raw held a value of the expected shape.
func decodeOptional(raw json.RawMessage, v interface{}) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
