package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"

	"github.com/ikkim/member-directory/internal/app/dto"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/internal/storage"
	"github.com/ikkim/member-directory/pkg/util"
)

// ValidationError lists per-field problems found before anything was sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// File is an in-memory upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 {
	return int64(len(f.Data))
}

// RegisterForm is everything the registration screen collects.
type RegisterForm struct {
	dto.MemberFields
	Password        string
	ConfirmPassword string
	// Status is ignored by the server unless the caller is an admin.
	Status        model.MemberStatus
	Businesses    []dto.BusinessInput
	Family        *dto.FamilyInput
	ProfileImage  *File
	BusinessImage *File
	Gallery       []File
	ReferredBy    string
	ReferralCode  string
}

type formErrors map[string]string

func (fe formErrors) add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

func (fe formErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

func checkFile(fe formErrors, field string, f File, limits storage.Limits) {
	if err := limits.CheckSize(f.Size()); err != nil {
		fe.add(field, fmt.Sprintf("%s is larger than %d MB", f.Name, limits.MaxFileBytes>>20))
		return
	}
	if err := storage.ValidateContentType(f.ContentType, storage.MediaContentTypes); err != nil {
		fe.add(field, fmt.Sprintf("%s has an unsupported type", f.Name))
	}
}

// Validate applies the checks the server would reject the form for.
func (f RegisterForm) Validate(limits storage.Limits) error {
	fe := formErrors{}

	if strings.TrimSpace(f.FirstName) == "" {
		fe.add("first_name", "is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		fe.add("email", "is required")
	}
	if err := util.CheckPasswordPair(f.Password, f.ConfirmPassword); err != nil {
		switch {
		case errors.Is(err, util.ErrPasswordMismatch):
			fe.add("confirm_password", err.Error())
		default:
			fe.add("password", err.Error())
		}
	}

	if f.ProfileImage != nil {
		checkFile(fe, "profile_image", *f.ProfileImage, limits)
	}
	if (f.BusinessImage != nil || len(f.Gallery) > 0) && len(f.Businesses) == 0 {
		fe.add("media_gallery", "business files need a business profile")
	}
	if f.BusinessImage != nil {
		checkFile(fe, "business_profile_image", *f.BusinessImage, limits)
	}
	if err := limits.CheckCount(len(f.Gallery)); err != nil {
		fe.add("media_gallery", fmt.Sprintf("at most %d files", limits.MaxFiles))
	}
	for _, g := range f.Gallery {
		checkFile(fe, "media_gallery", g, limits)
	}

	return fe.err()
}

func (f RegisterForm) textFields() (map[string]string, error) {
	raw, err := json.Marshal(f.MemberFields)
	if err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["password"] = f.Password
	fields["confirm_password"] = f.ConfirmPassword
	fields["status"] = string(f.Status)
	fields["referred_by"] = f.ReferredBy
	fields["referral_code"] = f.ReferralCode

	if len(f.Businesses) > 0 {
		b, err := json.Marshal(f.Businesses)
		if err != nil {
			return nil, err
		}
		fields["business_profiles"] = string(b)
	}
	if f.Family != nil {
		b, err := json.Marshal(f.Family)
		if err != nil {
			return nil, err
		}
		fields["family"] = string(b)
	}
	return fields, nil
}

type namedFile struct {
	field string
	file  File
}

func buildMultipart(fields map[string]string, files []namedFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fields[k] == "" {
			continue
		}
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, nf := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, nf.field, nf.file.Name))
		contentType := nf.file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(nf.file.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// RegisterMember validates form locally and, only if it passes, submits it
// as POST /api/member/register.
func (c *Client) RegisterMember(ctx context.Context, form RegisterForm) (directory.Record, error) {
	if err := form.Validate(storage.DefaultLimits); err != nil {
		return directory.Record{}, err
	}

	fields, err := form.textFields()
	if err != nil {
		return directory.Record{}, fmt.Errorf("failed to encode form: %w", err)
	}
	var files []namedFile
	if form.ProfileImage != nil {
		files = append(files, namedFile{"profile_image", *form.ProfileImage})
	}
	if form.BusinessImage != nil {
		files = append(files, namedFile{"business_profile_image", *form.BusinessImage})
	}
	for _, g := range form.Gallery {
		files = append(files, namedFile{"media_gallery[]", g})
	}

	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return directory.Record{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	env, err := c.send(ctx, http.MethodPost, "/api/member/register", body, contentType)
	if err != nil {
		return directory.Record{}, err
	}
	return directory.DecodeMember(env.Data)
}

// UploadFiles checks every file against the upload limits and then posts
// them one by one to /api/upload, returning the stored paths in order.
func (c *Client) UploadFiles(ctx context.Context, folder string, files []File) ([]string, error) {
	limits := storage.DefaultLimits
	fe := formErrors{}
	if err := limits.CheckCount(len(files)); err != nil {
		fe.add("file", fmt.Sprintf("at most %d files", limits.MaxFiles))
	}
	for _, f := range files {
		checkFile(fe, "file", f, limits)
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		body, contentType, err := buildMultipart(map[string]string{"folder": folder}, []namedFile{{"file", f}})
		if err != nil {
			return paths, fmt.Errorf("failed to build multipart body: %w", err)
		}
		env, err := c.send(ctx, http.MethodPost, "/api/upload", body, contentType)
		if err != nil {
			return paths, err
		}
		paths = append(paths, env.FilePath)
	}
	return paths, nil
}
