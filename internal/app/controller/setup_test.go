package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/config"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/app/service"
	"github.com/ikkim/member-directory/internal/db"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/storage"
	"github.com/ikkim/member-directory/internal/websocket"
	"github.com/ikkim/member-directory/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// testEnv is a fully wired API over an in-memory database and a temp
// upload directory.
type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	members service.MemberService
	hub     *websocket.Hub
	uploads string
}

func setupControllerTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	require.NoError(t, db.SeedAdmin(testDB, config.AdminConfig{
		Email:    "admin@example.com",
		Password: "adminpass123",
		Name:     "Admin",
	}))

	uploadDir := t.TempDir()
	local, err := storage.NewLocalStorage(uploadDir)
	require.NoError(t, err)
	uploader := NewUploader(local, storage.DefaultLimits)

	memberRepo := repository.NewMemberRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)

	authService := service.NewAuthService(
		repository.NewAdminRepository(testDB),
		memberRepo,
		nil,
		testSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	memberService := service.NewMemberService(memberRepo)
	businessService := service.NewBusinessService(businessRepo, memberRepo)
	familyService := service.NewFamilyService(repository.NewFamilyRepository(testDB), memberRepo)
	ratingService := service.NewRatingService(repository.NewRatingRepository(testDB), businessRepo)
	directoryService := service.NewDirectoryService(
		memberRepo,
		directory.NewPipeline(directory.NewSorter("en")),
		directory.NewAggregator("http://media.test", ratingService.Fetcher()),
		directory.DefaultPageSize,
	)
	hub := websocket.NewHub()
	profileViewService := service.NewProfileViewService(repository.NewProfileViewRepository(testDB), memberRepo, hub)

	authCtrl := NewAuthController(authService)
	memberCtrl := NewMemberController(memberService, directoryService, service.NewExportService(memberRepo), uploader)
	directoryCtrl := NewDirectoryController(directoryService)
	businessCtrl := NewBusinessController(businessService, uploader)
	familyCtrl := NewFamilyController(familyService)
	ratingCtrl := NewRatingController(ratingService)
	uploadCtrl := NewUploadController(uploader, nil)
	viewCtrl := NewProfileViewController(profileViewService, hub)

	m := middleware.NewAuthMiddleware(testSecret, nil)
	auth := m.Authenticate()
	adminOnly := m.RequireRole(util.RoleAdmin)
	memberOnly := m.RequireRole(util.RoleMember)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/admin/login", authCtrl.AdminLogin)
	api.POST("/member/login", authCtrl.MemberLogin)
	api.POST("/logout", auth, authCtrl.Logout)

	api.POST("/member/register", m.OptionalAuthenticate(), memberCtrl.Register)
	api.GET("/member/all", auth, memberCtrl.List)
	api.GET("/member/:id", auth, memberCtrl.Get)
	api.GET("/member/:id/detail", auth, memberCtrl.Detail)
	api.PUT("/member/update/:id", auth, memberCtrl.Update)
	api.PUT("/member/credentials", auth, memberOnly, memberCtrl.UpdateCredentials)
	api.DELETE("/member/delete/:id", auth, m.RequirePermission(model.PermMembersDelete), memberCtrl.Delete)
	api.GET("/admin/members/export", auth, adminOnly, memberCtrl.Export)

	api.GET("/directory", auth, memberOnly, directoryCtrl.Browse)

	api.POST("/business-profile/:mid", auth, businessCtrl.Create)
	api.PUT("/business-profile/update/:id", auth, businessCtrl.Update)
	api.DELETE("/business/delete/:id", auth, businessCtrl.Delete)

	api.POST("/family-details/:mid", auth, familyCtrl.Create)
	api.PUT("/family-details/update/:id", auth, familyCtrl.Update)

	api.GET("/ratings/all", auth, adminOnly, ratingCtrl.ListAll)
	api.GET("/ratings/:businessId", auth, ratingCtrl.ListByBusiness)
	api.POST("/ratings", auth, memberOnly, ratingCtrl.Create)
	api.PATCH("/:id/status", auth, m.RequirePermission(model.PermRatingsModerate), ratingCtrl.ChangeStatus)

	api.POST("/upload", auth, uploadCtrl.Upload)
	api.POST("/upload/presigned-url", auth, uploadCtrl.GeneratePresignedURL)

	api.POST("/profileview", auth, memberOnly, viewCtrl.Record)
	api.GET("/ws", auth, memberOnly, viewCtrl.Connect)

	return &testEnv{
		router:  router,
		db:      testDB,
		members: memberService,
		hub:     hub,
		uploads: uploadDir,
	}
}

// register creates a member directly through the service.
func (e *testEnv) register(t *testing.T, first, email string, status model.MemberStatus) *model.Member {
	t.Helper()
	member, err := e.members.Register(service.RegisterInput{
		MemberFields:    service.MemberFields{FirstName: first, LastName: "K", Email: email},
		Password:        "password123",
		ConfirmPassword: "password123",
		Status:          status,
	}, true)
	require.NoError(t, err)
	return member
}

func memberToken(t *testing.T, m *model.Member) string {
	t.Helper()
	pair, err := util.GenerateTokenPair(util.TokenSubject{
		ID:    m.ID,
		Email: m.Email,
		Role:  util.RoleMember,
	}, testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

func adminToken(t *testing.T, perms ...string) string {
	t.Helper()
	pair, err := util.GenerateTokenPair(util.TokenSubject{
		ID:          1,
		Email:       "admin@example.com",
		Role:        util.RoleAdmin,
		Permissions: perms,
	}, testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

func (e *testEnv) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req, token)
}

type formFileSpec struct {
	field       string
	name        string
	contentType string
	content     []byte
}

func (e *testEnv) doMultipart(t *testing.T, method, path, token string, fields map[string]string, files ...formFileSpec) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.do(req, token)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
