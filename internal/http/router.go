package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyaid-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyaid-backend/internal/http/middleware"
	"github.com/yungbote/studyaid-backend/internal/observability"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// Metrics is nil when metrics are disabled.
	Metrics *observability.Metrics

	CourseHandler   *httpH.CourseHandler
	ContentHandler  *httpH.ContentHandler
	GenerateHandler *httpH.GenerateHandler
	DebugHandler    *httpH.DebugHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIdentity())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Canvas catalog
		if cfg.CourseHandler != nil {
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/:courseId/modules", cfg.CourseHandler.ListModules)
			api.GET("/courses/:courseId/modules/:moduleId/items", cfg.CourseHandler.ListModuleItems)
		}

		// Page content
		if cfg.ContentHandler != nil {
			api.POST("/content", cfg.ContentHandler.FetchContent)
		}

		// Study aid generation
		if cfg.GenerateHandler != nil {
			api.POST("/generate", cfg.GenerateHandler.Generate)
		}

		if cfg.DebugHandler != nil {
			api.GET("/debug", cfg.DebugHandler.Report)
		}
	}

	return r
}
