package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-Id"

// NewRouter wires the handlers, CORS and request logging onto a gin engine.
// An empty origins list or one containing "*" allows every origin.
func NewRouter(svc Service, logger *logrus.Logger, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(requestID())
	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AddAllowHeaders(requestIDHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", requestIDHeader)
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	h := &handler{svc: svc}
	api := r.Group("/api/v1")
	{
		api.POST("/consignments", h.createConsignment)
		api.GET("/consignments/:id", h.getConsignment)
		api.PATCH("/consignments/:id/status", h.updateStatus)
		api.DELETE("/consignments/:id", h.deleteConsignment)
		api.POST("/consignments/:id/returns/validate", h.validateReturn)
		api.POST("/consignments/:id/returns", h.recordReturn)

		api.POST("/packaging/gross", h.toGross)
		api.POST("/packaging/net", h.toNet)

		api.GET("/reports/reconciliation", h.reconciliationReport)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDHeader, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"latency":    time.Since(start).String(),
			"request_id": c.GetString(requestIDHeader),
		}
		if len(c.Errors) > 0 {
			logger.WithFields(fields).Error(c.Errors.String())
			return
		}
		logger.WithFields(fields).Info("request")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
