package controller

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/service"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MemberController struct {
	memberService    service.MemberService
	directoryService service.DirectoryService
	exportService    service.ExportService
	uploader         *Uploader
}

func NewMemberController(
	memberService service.MemberService,
	directoryService service.DirectoryService,
	exportService service.ExportService,
	uploader *Uploader,
) *MemberController {
	return &MemberController{
		memberService:    memberService,
		directoryService: directoryService,
		exportService:    exportService,
		uploader:         uploader,
	}
}

type UpdateCredentialsRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// List returns every member with associations
// GET /api/member/all
func (ctrl *MemberController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	members, err := ctrl.memberService.List()
	if err != nil {
		respondServiceError(c, log, err, "fetch members")
		return
	}
	respondData(c, members)
}

// Get returns one member
// GET /api/member/:id
func (ctrl *MemberController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	member, err := ctrl.memberService.Get(id)
	if err != nil {
		respondServiceError(c, log, err, "member")
		return
	}
	respondData(c, member)
}

// Detail returns the profile view-model
// GET /api/member/:id/detail
func (ctrl *MemberController) Detail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.directoryService.Detail(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, log, err, "member")
		return
	}
	respondData(c, view)
}

// Register creates a member from a multipart form
// POST /api/member/register
func (ctrl *MemberController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input := service.RegisterInput{
		MemberFields:    memberFieldsFromForm(c),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
		Status:          model.MemberStatus(strings.TrimSpace(c.PostForm("status"))),
		ReferralName:    c.PostForm("referred_by"),
		ReferralCode:    c.PostForm("referral_code"),
	}

	if raw := strings.TrimSpace(c.PostForm("business_profiles")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Businesses); err != nil {
			log.Warn("Invalid business_profiles field", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.RespondWithValidationError(c, map[string]string{"business_profiles": "must be a JSON array"})
			return
		}
	}
	if raw := strings.TrimSpace(c.PostForm("family")); raw != "" {
		var family service.FamilyInput
		if err := json.Unmarshal([]byte(raw), &family); err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{"family": "must be a JSON object"})
			return
		}
		input.Family = &family
	}

	profileImage := formFile(c, "profile_image")
	businessImage := formFile(c, "business_profile_image")
	gallery := formFiles(c, "media_gallery[]", "media_gallery")

	if (businessImage != nil || len(gallery) > 0) && len(input.Businesses) == 0 {
		apperrors.RespondWithValidationError(c, map[string]string{"media_gallery": "business files need a business profile"})
		return
	}
	if err := ctrl.checkUploads(gallery, profileImage, businessImage); err != nil {
		respondServiceError(c, log, err, "upload")
		return
	}

	ctx := c.Request.Context()
	if profileImage != nil {
		p, err := ctrl.uploader.Save(ctx, storage.FolderProfiles, profileImage)
		if err != nil {
			respondServiceError(c, log, err, "upload")
			return
		}
		input.ProfileImage = p
	}
	if businessImage != nil {
		p, err := ctrl.uploader.Save(ctx, storage.FolderBusinesses, businessImage)
		if err != nil {
			respondServiceError(c, log, err, "upload")
			return
		}
		input.Businesses[0].ProfileImage = p
	}
	if len(gallery) > 0 {
		paths, err := ctrl.uploader.SaveAll(ctx, storage.FolderGallery, gallery)
		if err != nil {
			respondServiceError(c, log, err, "upload")
			return
		}
		input.Businesses[0].Gallery = append(input.Businesses[0].Gallery, paths...)
	}

	member, err := ctrl.memberService.Register(input, middleware.IsAdmin(c))
	if err != nil {
		respondServiceError(c, log, err, "register member")
		return
	}

	log.Info("Member registered", map[string]interface{}{
		"member_id": member.ID,
		"by_admin":  middleware.IsAdmin(c),
	})
	respondMutation(c, http.StatusCreated, "Member registered successfully", member)
}

// Update changes the fields present in the form
// PUT /api/member/update/:id
func (ctrl *MemberController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, id) {
		return
	}

	input := service.MemberUpdate{Fields: map[string]string{}}
	for _, name := range service.MemberFieldNames() {
		if v, exists := c.GetPostForm(name); exists {
			input.Fields[name] = v
		}
	}
	if v, exists := c.GetPostForm("status"); exists {
		status := model.MemberStatus(strings.TrimSpace(v))
		input.Status = &status
	}

	if fh := formFile(c, "profile_image"); fh != nil {
		p, err := ctrl.uploader.Save(c.Request.Context(), storage.FolderProfiles, fh)
		if err != nil {
			respondServiceError(c, log, err, "upload")
			return
		}
		input.ProfileImage = &p
	}

	member, err := ctrl.memberService.Update(id, input, middleware.IsAdmin(c))
	if err != nil {
		respondServiceError(c, log, err, "update member")
		return
	}
	respondMutation(c, http.StatusOK, "Member updated successfully", member)
}

// UpdateCredentials changes the caller's own email or password
// PUT /api/member/credentials
func (ctrl *MemberController) UpdateCredentials(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	memberID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if err := ctrl.memberService.UpdateCredentials(memberID, req.Email, req.Password, req.ConfirmPassword); err != nil {
		respondServiceError(c, log, err, "update credentials")
		return
	}
	respondMutation(c, http.StatusOK, "Credentials updated successfully", nil)
}

// Delete removes a member and everything it owns
// DELETE /api/member/delete/:id
func (ctrl *MemberController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.memberService.Delete(id); err != nil {
		respondServiceError(c, log, err, "delete member")
		return
	}
	respondMutation(c, http.StatusOK, "Member deleted successfully", nil)
}

// Export streams all members as an xlsx workbook
// GET /api/admin/members/export
func (ctrl *MemberController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.exportService.ExportMembers()
	if err != nil {
		respondServiceError(c, log, err, "export members")
		return
	}

	filename := "members-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (ctrl *MemberController) checkUploads(gallery []*multipart.FileHeader, singles ...*multipart.FileHeader) error {
	if err := ctrl.uploader.Check(gallery...); err != nil {
		return err
	}
	for _, fh := range singles {
		if fh == nil {
			continue
		}
		if err := ctrl.uploader.Check(fh); err != nil {
			return err
		}
	}
	return nil
}

func memberFieldsFromForm(c *gin.Context) service.MemberFields {
	return service.MemberFields{
		FirstName:      c.PostForm("first_name"),
		LastName:       c.PostForm("last_name"),
		Email:          c.PostForm("email"),
		SecondaryEmail: c.PostForm("secondary_email"),
		ContactNo:      c.PostForm("contact_no"),
		Address:        c.PostForm("address"),
		City:           c.PostForm("city"),
		State:          c.PostForm("state"),
		ZipCode:        c.PostForm("zip_code"),
		Country:        c.PostForm("country"),
		Website:        c.PostForm("website"),
		Facebook:       c.PostForm("facebook"),
		Instagram:      c.PostForm("instagram"),
		LinkedIn:       c.PostForm("linkedin"),
		Twitter:        c.PostForm("twitter"),
		Kootam:         c.PostForm("kootam"),
		MaritalStatus:  c.PostForm("marital_status"),
		JoinDate:       c.PostForm("join_date"),
	}
}

// formFiles collects the files under keys. Non-multipart requests have none.
func formFiles(c *gin.Context, keys ...string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var files []*multipart.FileHeader
	for _, k := range keys {
		files = append(files, form.File[k]...)
	}
	return files
}

func formFile(c *gin.Context, key string) *multipart.FileHeader {
	files := formFiles(c, key)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
