package routes

import (
	"net/http"
	"time"

	_ "quotation_service/docs" // swag generated
	"quotation_service/internal/adapter/http/handlers"
	"quotation_service/internal/adapter/http/middleware"
	"quotation_service/internal/config"
	"quotation_service/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiBanner = "Air Utilities Quotation System API"

// Dependencies is everything the router needs. RateLimiter may be nil.
type Dependencies struct {
	Config           config.Config
	Logger           *logrus.Logger
	QuotationUseCase usecase.IQuotationUseCase
	RateLimiter      *middleware.RateLimiter
}

// NewRouter builds the HTTP engine with every route and middleware mounted.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	setMiddlewares(router, deps)

	router.GET("/", banner)
	addPingRoutes(&router.RouterGroup)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.NoRoute(middleware.NoRoute)

	quotationHandler := handlers.NewQuotationHandler(deps.QuotationUseCase)
	proposalHandler := handlers.NewProposalHandler(deps.QuotationUseCase)

	api := router.Group(PathAPI)
	addQuotationRoutes(api, middleware.Auth(deps.Config.JWTSecret), quotationHandler)

	var limit []gin.HandlerFunc
	if deps.RateLimiter != nil {
		limit = append(limit, deps.RateLimiter.Middleware("proposal"))
	}
	addProposalRoutes(&router.RouterGroup, proposalHandler, limit...)

	return router
}

func setMiddlewares(router *gin.Engine, deps Dependencies) {
	dev := deps.Config.IsDevelopment()
	router.Use(middleware.Recovery(deps.Logger, dev))
	router.Use(middleware.RequestLogger(deps.Logger, middleware.DefaultSlowRequestThreshold))
	router.Use(cors.New(corsConfig(deps.Config)))
	router.Use(middleware.ErrorHandler(deps.Logger, dev))
}

// corsConfig allows every origin unless production sets CORS_ALLOWED_ORIGINS.
func corsConfig(cfg config.Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.IsProduction() && len(cfg.CORSAllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		c.AllowAllOrigins = true
	}
	c.AddAllowMethods(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions)
	c.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	c.AddExposeHeaders("Content-Length", "Retry-After")
	c.MaxAge = 12 * time.Hour
	return c
}

func banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": apiBanner,
		"status":  "running",
		"date":    time.Now().UTC().Format(time.RFC3339),
	})
}
