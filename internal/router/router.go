package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/member-directory/config"
	"github.com/ikkim/member-directory/internal/app/controller"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/middleware"
	"github.com/ikkim/member-directory/internal/storage"
	"github.com/ikkim/member-directory/pkg/util"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers groups every HTTP handler set the router mounts.
type Controllers struct {
	Auth        *controller.AuthController
	Member      *controller.MemberController
	Directory   *controller.DirectoryController
	Business    *controller.BusinessController
	Family      *controller.FamilyController
	Rating      *controller.RatingController
	Upload      *controller.UploadController
	ProfileView *controller.ProfileViewController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Member directory API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.config.Upload.Driver == config.UploadDriverLocal {
		router.Static("/"+storage.LocalPrefix, r.config.Upload.LocalDir)
	}

	ctrl := r.controllers
	auth := r.authMiddleware.Authenticate()
	adminOnly := r.authMiddleware.RequireRole(util.RoleAdmin)
	memberOnly := r.authMiddleware.RequireRole(util.RoleMember)

	api := router.Group("/api")
	{
		api.POST("/admin/login", ctrl.Auth.AdminLogin)
		api.POST("/member/login", ctrl.Auth.MemberLogin)
		api.POST("/logout", auth, ctrl.Auth.Logout)

		member := api.Group("/member")
		{
			member.POST("/register", r.authMiddleware.OptionalAuthenticate(), ctrl.Member.Register)
			member.GET("/all", auth, ctrl.Member.List)
			member.GET("/:id", auth, ctrl.Member.Get)
			member.GET("/:id/detail", auth, ctrl.Member.Detail)
			member.PUT("/update/:id", auth, ctrl.Member.Update)
			member.PUT("/credentials", auth, memberOnly, ctrl.Member.UpdateCredentials)
			member.DELETE("/delete/:id",
				auth,
				r.authMiddleware.RequirePermission(model.PermMembersDelete),
				ctrl.Member.Delete,
			)
		}

		api.GET("/directory", auth, memberOnly, ctrl.Directory.Browse)

		api.POST("/business-profile/:mid", auth, ctrl.Business.Create)
		api.PUT("/business-profile/update/:id", auth, ctrl.Business.Update)
		api.DELETE("/business/delete/:id", auth, ctrl.Business.Delete)

		api.POST("/family-details/:mid", auth, ctrl.Family.Create)
		api.PUT("/family-details/update/:id", auth, ctrl.Family.Update)

		ratings := api.Group("/ratings")
		ratings.Use(auth)
		{
			ratings.GET("/all", adminOnly, ctrl.Rating.ListAll)
			ratings.GET("/:businessId", ctrl.Rating.ListByBusiness)
			ratings.POST("", memberOnly, ctrl.Rating.Create)
		}
		api.PATCH("/:id/status",
			auth,
			r.authMiddleware.RequirePermission(model.PermRatingsModerate),
			ctrl.Rating.ChangeStatus,
		)

		upload := api.Group("/upload")
		upload.Use(auth)
		{
			upload.POST("", ctrl.Upload.Upload)
			upload.POST("/presigned-url", ctrl.Upload.GeneratePresignedURL)
		}

		api.POST("/profileview", auth, memberOnly, ctrl.ProfileView.Record)
		api.GET("/ws", auth, memberOnly, ctrl.ProfileView.Connect)

		admin := api.Group("/admin")
		admin.Use(auth, adminOnly)
		{
			admin.GET("/members/export",
				r.authMiddleware.RequirePermission(model.PermMembersExport),
				ctrl.Member.Export,
			)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
