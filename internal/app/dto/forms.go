// Package dto holds the request shapes shared by the API handlers and the
// Go client. It has no database dependencies.
package dto

// MemberFields are the scalar profile attributes shared by registration
// and update.
type MemberFields struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	SecondaryEmail string `json:"secondary_email"`
	ContactNo      string `json:"contact_no"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
	Website        string `json:"website"`
	Facebook       string `json:"facebook"`
	Instagram      string `json:"instagram"`
	LinkedIn       string `json:"linkedin"`
	Twitter        string `json:"twitter"`
	Kootam         string `json:"kootam"`
	MaritalStatus  string `json:"marital_status"`
	JoinDate       string `json:"join_date"`
}

type BusinessInput struct {
	CompanyName    string   `json:"company_name"`
	BusinessType   string   `json:"business_type"`
	Role           string   `json:"role"`
	CompanyAddress string   `json:"company_address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	Experience     string   `json:"experience"`
	StaffSize      string   `json:"staff_size"`
	Contact        string   `json:"contact"`
	Email          string   `json:"email"`
	Source         string   `json:"source"`
	ProfileImage   string   `json:"business_profile_image"`
	Gallery        []string `json:"media_gallery"`
}

// FamilyInput replaces every family attribute on update.
type FamilyInput struct {
	FatherName       string   `json:"father_name"`
	FatherContact    string   `json:"father_contact"`
	MotherName       string   `json:"mother_name"`
	MotherContact    string   `json:"mother_contact"`
	SpouseName       string   `json:"spouse_name"`
	SpouseContact    string   `json:"spouse_contact"`
	NumberOfChildren int      `json:"number_of_children"`
	ChildrenNames    []string `json:"children_names"`
	Address          string   `json:"address"`
}
