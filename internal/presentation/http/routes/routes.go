package routes

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/bizcoach-api/internal/config"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/handler"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/middleware"
	"github.com/sangkips/bizcoach-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Analytics *handler.AnalyticsHandler
	Sale      *handler.SaleHandler
	Report    *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	Cfg         *config.Config
	Logger      *zap.Logger
	RateLimiter *middleware.OwnerRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerAnalyticsRoutes(protected, h)
		registerSaleRoutes(protected, h)
		registerReportRoutes(protected, h)
	}

	return router
}

func registerAnalyticsRoutes(protected *gin.RouterGroup, h *Handlers) {
	analytics := protected.Group("/analytics")
	{
		analytics.GET("/metrics", h.Analytics.Metrics)
		analytics.GET("/trends", h.Analytics.Trends)
		analytics.GET("/growth-rate", h.Analytics.GrowthRate)
		analytics.GET("/anomalies", h.Analytics.Anomalies)
		analytics.GET("/insights", h.Analytics.Insights)
		analytics.GET("/segments", h.Analytics.Segments)
		analytics.GET("/daily-revenue", h.Analytics.DailyRevenue)
		analytics.GET("/overview", h.Analytics.Overview)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/sales", h.Sale.Create)
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/dashboard.pdf", h.Report.DashboardPDF)
	}
}

// useJSONFieldNames makes validation errors report json field names
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
