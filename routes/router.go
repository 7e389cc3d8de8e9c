package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/config"
	"github.com/wastewise/wastewise/controllers"
	"github.com/wastewise/wastewise/middleware"
	"github.com/wastewise/wastewise/services"
	"github.com/wastewise/wastewise/utils"
)

// Services bundles the shared engine services injected into handlers.
type Services struct {
	Gamification *services.GamificationService
	Challenges   *services.ChallengeService
	Leaderboard  *services.LeaderboardService
	Queue        controllers.JobPublisher
}

// SetupRouter builds the HTTP router with middleware and all route groups.
func SetupRouter(db *gorm.DB, svc Services) *gin.Engine {
	cfg := config.Get()
	gin.SetMode(cfg.GinMode)

	router := gin.New()

	ginLogger, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		ginLogger = utils.Logger
	}
	router.Use(utils.Ginzap(ginLogger, time.RFC3339, true))
	router.Use(utils.RecoveryWithZap(ginLogger, true))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := controllers.NewAuthController(db)
	company := controllers.NewCompanyController(db)
	area := controllers.NewAreaController(db)
	photo := controllers.NewPhotoController(db, svc.Queue, cfg.UploadDir)
	achievement := controllers.NewAchievementController(db)
	challenge := controllers.NewChallengeController(db, svc.Challenges)
	event := controllers.NewEventController(db)
	gamification := controllers.NewGamificationController(db, svc.Gamification, svc.Leaderboard)

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware())

	public := api.Group("/auth")
	{
		public.POST("/register", auth.Register)
		public.POST("/login", auth.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.POST("/auth/logout", auth.Logout)
		authed.GET("/auth/me", auth.Me)
		authed.PATCH("/auth/profile", auth.UpdateProfile)

		authed.GET("/areas", area.ListAreas)

		authed.POST("/photos", photo.Upload)
		authed.GET("/photos", photo.ListMine)
		authed.GET("/photos/:id", photo.Get)

		authed.GET("/achievements", achievement.List)
		authed.GET("/achievements/mine", achievement.Mine)

		authed.GET("/challenges", challenge.List)

		authed.GET("/events", event.List)

		authed.GET("/gamification/progress", gamification.Progress)
		authed.GET("/gamification/achievements", gamification.Achievements)
		authed.GET("/gamification/challenges", challenge.MyProgress)
		authed.GET("/leaderboard", gamification.Leaderboard)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/employees", company.ListEmployees)
		admin.POST("/employees", company.CreateEmployee)
		admin.DELETE("/employees/:id", company.DeactivateEmployee)
		admin.GET("/analytics", company.Analytics)

		admin.POST("/areas", area.CreateArea)
		admin.PUT("/areas/:id", area.UpdateArea)
		admin.DELETE("/areas/:id", area.DeleteArea)
		admin.POST("/bins", area.CreateBin)
		admin.DELETE("/bins/:id", area.DeleteBin)

		admin.POST("/achievements", achievement.Create)
		admin.PUT("/achievements/:id", achievement.Update)
		admin.DELETE("/achievements/:id", achievement.Delete)

		admin.POST("/challenges", challenge.Create)
		admin.PUT("/challenges/:id", challenge.Update)
		admin.DELETE("/challenges/:id", challenge.Deactivate)

		admin.POST("/events", event.Create)
		admin.PUT("/events/:id", event.Update)
		admin.DELETE("/events/:id", event.Deactivate)
	}

	return router
}
