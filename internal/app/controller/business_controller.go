package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/internal/app/service"
	"github.com/ikkim/member-directory/internal/directory"
	apperrors "github.com/ikkim/member-directory/internal/errors"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/storage"
	"github.com/ikkim/member-directory/pkg/logger"
)

type BusinessController struct {
	businessService service.BusinessService
	uploader        *Uploader
}

func NewBusinessController(businessService service.BusinessService, uploader *Uploader) *BusinessController {
	return &BusinessController{
		businessService: businessService,
		uploader:        uploader,
	}
}

// Create adds a business profile to a member
// POST /api/business-profile/:mid
func (ctrl *BusinessController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	mid, ok := parseIDParam(c, "mid")
	if !ok {
		return
	}
	if !requireSelfOrAdmin(c, mid) {
		return
	}

	var input service.BusinessInput
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
			return
		}
	} else {
		fields := map[string]string{}
		for _, name := range service.BusinessFieldNames() {
			fields[name] = c.PostForm(name)
		}
		input = businessInputFromFields(fields)

		if fh := formFile(c, "business_profile_image"); fh != nil {
			p, err := ctrl.uploader.Save(c.Request.Context(), storage.FolderBusinesses, fh)
			if err != nil {
				respondServiceError(c, log, err, "upload")
				return
			}
			input.ProfileImage = p
		}
		if files := formFiles(c, "media_gallery[]", "media_gallery"); len(files) > 0 {
			paths, err := ctrl.uploader.SaveAll(c.Request.Context(), storage.FolderGallery, files)
			if err != nil {
				respondServiceError(c, log, err, "upload")
				return
			}
			input.Gallery = paths
		}
	}

	profile, err := ctrl.businessService.Create(mid, input)
	if err != nil {
		respondServiceError(c, log, err, "create business profile")
		return
	}
	respondMutation(c, http.StatusCreated, "Business profile created successfully", profile)
}

// Update changes a business profile. A gallery that is sent replaces the
// stored one.
// PUT /api/business-profile/update/:id
func (ctrl *BusinessController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !ctrl.authorizeOwner(c, log, id) {
		return
	}

	input := service.BusinessUpdate{Fields: map[string]string{}}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var raw map[string]json.RawMessage
		if err := c.ShouldBindJSON(&raw); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
			return
		}
		if err := decodeBusinessUpdate(raw, &input); err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{"media_gallery": err.Error()})
			return
		}
	} else {
		for _, name := range service.BusinessFieldNames() {
			if v, exists := c.GetPostForm(name); exists {
				input.Fields[name] = v
			}
		}
		if fh := formFile(c, "business_profile_image"); fh != nil {
			p, err := ctrl.uploader.Save(c.Request.Context(), storage.FolderBusinesses, fh)
			if err != nil {
				respondServiceError(c, log, err, "upload")
				return
			}
			input.ProfileImage = &p
		}
		if files := formFiles(c, "media_gallery[]", "media_gallery"); len(files) > 0 {
			paths, err := ctrl.uploader.SaveAll(c.Request.Context(), storage.FolderGallery, files)
			if err != nil {
				respondServiceError(c, log, err, "upload")
				return
			}
			input.Gallery = paths
		}
	}

	profile, err := ctrl.businessService.Update(id, input)
	if err != nil {
		respondServiceError(c, log, err, "update business profile")
		return
	}
	respondMutation(c, http.StatusOK, "Business profile updated successfully", profile)
}

// Delete removes a business profile and its ratings
// DELETE /api/business/delete/:id
func (ctrl *BusinessController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !ctrl.authorizeOwner(c, log, id) {
		return
	}

	if err := ctrl.businessService.Delete(id); err != nil {
		respondServiceError(c, log, err, "delete business profile")
		return
	}
	respondMutation(c, http.StatusOK, "Business profile deleted successfully", nil)
}

// authorizeOwner lets admins and the owning member through.
func (ctrl *BusinessController) authorizeOwner(c *gin.Context, log *logger.Logger, id uint) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	profile, err := ctrl.businessService.Get(id)
	if err != nil {
		respondServiceError(c, log, err, "business profile")
		return false
	}
	if !requireSelfOrAdmin(c, profile.MemberID) {
		log.Warn("Business profile owner mismatch", map[string]interface{}{
			"business_id": id,
			"owner_id":    profile.MemberID,
		})
		return false
	}
	return true
}

func businessInputFromFields(f map[string]string) service.BusinessInput {
	return service.BusinessInput{
		CompanyName:    f["company_name"],
		BusinessType:   f["business_type"],
		Role:           f["role"],
		CompanyAddress: f["company_address"],
		City:           f["city"],
		State:          f["state"],
		ZipCode:        f["zip_code"],
		Experience:     f["experience"],
		StaffSize:      f["staff_size"],
		Contact:        f["contact"],
		Email:          f["email"],
		Source:         f["source"],
	}
}

// decodeBusinessUpdate accepts string field values and a media_gallery
// given either as an array or as the stored comma-joined form.
func decodeBusinessUpdate(raw map[string]json.RawMessage, input *service.BusinessUpdate) error {
	for _, name := range service.BusinessFieldNames() {
		v, ok := raw[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = strings.Trim(string(v), `"`)
		}
		input.Fields[name] = s
	}

	if v, ok := raw["business_profile_image"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			input.ProfileImage = &s
		}
	}

	if v, ok := raw["media_gallery"]; ok {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			input.Gallery = directory.ParseGallery(strings.Join(list, ","))
			return nil
		}
		var joined string
		if err := json.Unmarshal(v, &joined); err != nil {
			return err
		}
		input.Gallery = directory.ParseGallery(joined)
	}
	return nil
}
