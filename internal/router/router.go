package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/handler"
	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Interview *handler.InterviewHandler
	WS        *handler.WSHandler
	Question  *handler.QuestionHandler
	Monitor   *handler.MonitorHandler
	Lead      *handler.LeadHandler
	User      *handler.UserHandler
	Setting   *handler.SettingHandler
	Dashboard *handler.DashboardHandler
	Media     *handler.MediaHandler
	System    *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded media files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", "./uploads")
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/settings", handlers.Setting.GetPublicSettings)
		publicAPI.POST("/leads", handlers.Lead.CreateLead)
	}

	// Catalog is public but personalizes course ownership when a token is sent.
	catalogAPI := router.Group("/api/v1/catalog")
	catalogAPI.Use(middleware.OptionalAuth(authService))
	{
		catalogAPI.GET("/categories", handlers.Catalog.ListCategories)
		catalogAPI.GET("/courses", handlers.Catalog.BrowseCourses)
		catalogAPI.GET("/courses/:slug", handlers.Catalog.GetCourse)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.PUT("/password", middleware.RequireAuth(authService), handlers.Auth.ChangePassword)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudent(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Cart
		studentAPI.GET("/cart", handlers.Cart.GetCart)
		studentAPI.POST("/cart", handlers.Cart.AddToCart)
		studentAPI.DELETE("/cart", handlers.Cart.ClearCart)
		studentAPI.DELETE("/cart/:course_id", handlers.Cart.RemoveFromCart)

		// Checkout and orders
		studentAPI.POST("/checkout", handlers.Order.Checkout)
		studentAPI.GET("/orders", handlers.Order.ListMyOrders)
		studentAPI.GET("/orders/:id", handlers.Order.GetOrder)
		studentAPI.POST("/orders/:id/confirm", handlers.Order.ConfirmPayment)
		studentAPI.POST("/orders/:id/cancel", handlers.Order.CancelOrder)

		// Interview attempts
		studentAPI.POST("/interview/attempts", handlers.Interview.StartAttempt)
		studentAPI.GET("/interview/attempts", handlers.Interview.History)
		studentAPI.GET("/interview/attempts/:id", handlers.Interview.GetState)
		studentAPI.PUT("/interview/attempts/:id/answers", handlers.Interview.RecordAnswer)
		studentAPI.POST("/interview/attempts/:id/signals", handlers.Interview.ReportSignal)
		studentAPI.POST("/interview/attempts/:id/submit", handlers.Interview.SubmitAttempt)
		studentAPI.GET("/interview/attempts/:id/report", handlers.Interview.GetReport)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/student/interview/attempts/:id/stream", handlers.WS.InterviewStream)
	}

	// ─── 4. Tutor Group (JWT, tutor or admin) ──────────────────────────
	tutorAPI := router.Group("/api/v1/tutor")
	tutorAPI.Use(middleware.RequireTutor(authService))
	{
		// Question bank management
		tutorAPI.GET("/question-banks", handlers.Question.ListBanks)
		tutorAPI.POST("/question-banks", handlers.Question.CreateBank)
		tutorAPI.GET("/question-banks/:id", handlers.Question.GetBank)
		tutorAPI.PUT("/question-banks/:id", handlers.Question.UpdateBank)
		tutorAPI.DELETE("/question-banks/:id", handlers.Question.DeleteBank)
		tutorAPI.PUT("/question-banks/:id/questions", handlers.Question.ReplaceQuestions)

		// Live attempt proctoring
		tutorAPI.GET("/interview/monitor", handlers.Monitor.MonitorAttemptsSSE)
	}

	// ─── 5. Admin Group (JWT, admin only) ──────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdmin(authService))
	{
		// Media upload
		adminAPI.POST("/media/upload", handlers.Media.UploadMedia)

		// User management
		adminAPI.GET("/users", handlers.User.ListUsers)
		adminAPI.POST("/users", handlers.User.CreateUser)
		adminAPI.GET("/users/:id", handlers.User.GetUser)
		adminAPI.PUT("/users/:id", handlers.User.UpdateUser)
		adminAPI.DELETE("/users/:id", handlers.User.DeleteUser)

		// Course and category management
		adminAPI.GET("/courses", handlers.Catalog.AdminListCourses)
		adminAPI.POST("/courses", handlers.Catalog.CreateCourse)
		adminAPI.PUT("/courses/:id", handlers.Catalog.UpdateCourse)
		adminAPI.DELETE("/courses/:id", handlers.Catalog.DeleteCourse)
		adminAPI.POST("/categories", handlers.Catalog.CreateCategory)
		adminAPI.PUT("/categories/:id", handlers.Catalog.UpdateCategory)
		adminAPI.DELETE("/categories/:id", handlers.Catalog.DeleteCategory)

		// Payment verification
		adminAPI.GET("/orders/pending", handlers.Order.ListPendingVerification)
		adminAPI.POST("/orders/:id/verify", handlers.Order.VerifyOrder)

		// Leads
		adminAPI.GET("/leads", handlers.Lead.ListLeads)
		adminAPI.PATCH("/leads/:id/status", handlers.Lead.UpdateLeadStatus)

		// Dashboard
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)

		// System Monitoring
		adminAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)

		// App Settings Routes
		settingsGroup := adminAPI.Group("/settings")
		{
			settingsGroup.GET("", handlers.Setting.GetAllSettings)
			settingsGroup.PUT("", handlers.Setting.UpdateSettings)
		}
	}

	return router
}
