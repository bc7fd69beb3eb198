package service

import (
	"fmt"
	"strings"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const memberSheet = "Members"

// MemberSheetHeaders is the column layout shared by the export and the
// seed import.
var MemberSheetHeaders = []string{
	"First Name",
	"Last Name",
	"Email",
	"Contact No",
	"Status",
	"Kootam",
	"City",
	"State",
	"Marital Status",
	"Join Date",
	"Company Name",
	"Business Type",
	"Business City",
}

const (
	colFirstName = iota
	colLastName
	colEmail
	colContact
	colStatus
	colKootam
	colCity
	colState
	colMarital
	colJoinDate
	colCompany
	colBusinessType
	colBusinessCity
)

type ExportService interface {
	ExportMembers() ([]byte, error)
}

type exportService struct {
	memberRepo repository.MemberRepository
}

func NewExportService(memberRepo repository.MemberRepository) ExportService {
	return &exportService{memberRepo: memberRepo}
}

// MemberRow flattens a member and its first business into sheet cells.
func MemberRow(m model.Member) []interface{} {
	row := []interface{}{
		m.FirstName,
		m.LastName,
		m.Email,
		m.ContactNo,
		string(m.Status),
		m.Kootam,
		m.City,
		m.State,
		m.MaritalStatus,
		m.JoinDate,
		"", "", "",
	}
	if len(m.BusinessProfiles) > 0 {
		b := m.BusinessProfiles[0]
		row[colCompany] = b.CompanyName
		row[colBusinessType] = b.BusinessType
		row[colBusinessCity] = b.City
	}
	return row
}

func (s *exportService) ExportMembers() ([]byte, error) {
	members, err := s.memberRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), memberSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(MemberSheetHeaders))
	for i, h := range MemberSheetHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(memberSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, m := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := MemberRow(m)
		if err := f.SetSheetRow(memberSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row for member %d: %w", m.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render member export", err)
		return nil, err
	}

	logger.Info("Members exported", map[string]interface{}{
		"count": len(members),
		"bytes": buf.Len(),
	})
	return buf.Bytes(), nil
}

// ParseMemberRow reads one data row of the member sheet. Rows without an
// email or first name are reported as not ok. Imported members get a
// random password they must reset through the credentials endpoint.
func ParseMemberRow(row []string) (RegisterInput, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	input := RegisterInput{
		MemberFields: MemberFields{
			FirstName:     cell(colFirstName),
			LastName:      cell(colLastName),
			Email:         cell(colEmail),
			ContactNo:     cell(colContact),
			Kootam:        cell(colKootam),
			City:          cell(colCity),
			State:         cell(colState),
			MaritalStatus: cell(colMarital),
			JoinDate:      cell(colJoinDate),
		},
		Status: model.MemberStatus(cell(colStatus)),
	}
	if input.FirstName == "" || input.Email == "" {
		return RegisterInput{}, false
	}
	if company := cell(colCompany); company != "" {
		input.Businesses = []BusinessInput{{
			CompanyName:  company,
			BusinessType: cell(colBusinessType),
			City:         cell(colBusinessCity),
		}}
	}
	return input, true
}
