package router

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/handlers"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/middleware"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/services"
)

// corsMiddleware CORS middleware
// Priority: Environment Variable > YAML Config > Default (*)
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowedOrigins := []string{"*"}
		allowCredentials := true
		maxAge := 3600

		if envOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); envOrigins != "" {
			allowedOrigins = allowedOrigins[:0]
			for _, o := range strings.Split(envOrigins, ",") {
				if trimmed := strings.TrimSpace(o); trimmed != "" {
					allowedOrigins = append(allowedOrigins, trimmed)
				}
			}
		} else if config.AppConfig != nil && len(config.AppConfig.CORS.AllowedOrigins) > 0 {
			allowedOrigins = config.AppConfig.CORS.AllowedOrigins
			allowCredentials = config.AppConfig.CORS.AllowCredentials
			if config.AppConfig.CORS.MaxAge > 0 {
				maxAge = config.AppConfig.CORS.MaxAge
			}
		}

		allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "":
			for _, allowed := range allowedOrigins {
				if strings.TrimSpace(allowed) == origin {
					c.Header("Access-Control-Allow-Origin", origin)
					break
				}
			}
			if c.Writer.Header().Get("Access-Control-Allow-Origin") == "" {
				logrus.WithFields(logrus.Fields{
					"request_origin":  origin,
					"allowed_origins": allowedOrigins,
					"path":            c.Request.URL.Path,
				}).Warn("🚫 CORS: Request blocked - Origin not in whitelist")
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, Accept")
		if allowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Max-Age", strconv.Itoa(maxAge))

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type")
		c.Next()
	}
}

// Handlers bundles everything SetupRouter mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Flow       *handlers.FlowHandler
	Validation *handlers.ValidationHandler
	Position   *handlers.PositionHandler
	Chain      *handlers.ChainHandler
	Push       *services.WebSocketPushService
	AuthMW     *middleware.AuthMiddleware
}

// SetupRouter mounts all routes. Mutating flow routes require a Bearer
// token; reads and validation are public.
func SetupRouter(h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	// ============ Health Check ============
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", handlers.HealthCheckHandler)
	r.GET("/api/health", handlers.HealthCheckHandler)

	// ============ Prometheus Metrics ============
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============ WebSocket Push ============
	r.GET("/ws", handlers.WebSocketHandler(h.Push))

	// ============ API v1 ============
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/token", h.Auth.IssueTokenHandler)

		v1.GET("/chains", h.Chain.ListChainsHandler)
		v1.GET("/chains/:chain_id", h.Chain.GetChainHandler)

		v1.POST("/validate", h.Validation.ValidateHandler)
		v1.GET("/positions/:address", h.Position.GetPositionHandler)

		flows := v1.Group("/flows")
		flows.Use(h.AuthMW.RequireAuth())
		{
			flows.POST("", h.Flow.OpenFlowHandler)
			flows.GET("", h.Flow.FlowHistoryHandler)
			flows.GET("/:id", h.Flow.GetFlowHandler)
			flows.POST("/:id/submit", h.Flow.SubmitFlowHandler)
			flows.POST("/:id/reset", h.Flow.ResetFlowHandler)
			flows.DELETE("/:id", h.Flow.CloseFlowHandler)
		}
	}

	return r
}
