package directory

import "github.com/ikkim/member-directory/internal/app/model"

// ViewMode is the projection of the directory a viewer may browse.
type ViewMode string

const (
	ViewNone     ViewMode = ""
	ViewAll      ViewMode = "all"
	ViewMembers  ViewMode = "members"
	ViewBusiness ViewMode = "business"
)

// Visibility is the result of Filter. Visible is never nil.
type Visibility struct {
	Visible     []Record `json:"visible"`
	AllowedView ViewMode `json:"allowed_view"`
}

// Filter computes which members viewer may see. The rules are checked in
// order and every viewer lands in exactly one of them:
//
//  1. Pending viewers see members with at least one typed business.
//  2. Approved Basic viewers see other Basic members.
//  3. Approved Advanced viewers see everyone.
//  4. Anyone else, including a nil viewer, sees nothing.
//
// The viewer is never part of its own visible set.
func Filter(viewer *Record, all []Record) Visibility {
	if viewer == nil {
		return Visibility{Visible: []Record{}, AllowedView: ViewNone}
	}

	var (
		mode  ViewMode
		admit func(Record) bool
	)
	switch {
	case viewer.Status == model.StatusPending:
		mode = ViewBusiness
		admit = Record.HasBusinessType
	case viewer.Status == model.StatusApproved && viewer.AccessLevel == model.AccessBasic:
		mode = ViewAll
		admit = func(r Record) bool { return r.AccessLevel == model.AccessBasic }
	case viewer.Status == model.StatusApproved && viewer.AccessLevel == model.AccessAdvanced:
		mode = ViewAll
		admit = func(Record) bool { return true }
	default:
		return Visibility{Visible: []Record{}, AllowedView: ViewNone}
	}

	visible := make([]Record, 0, len(all))
	for _, r := range all {
		if r.ID == viewer.ID {
			continue
		}
		if admit(r) {
			visible = append(visible, r)
		}
	}
	return Visibility{Visible: visible, AllowedView: mode}
}
