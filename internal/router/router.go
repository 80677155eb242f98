// Package router wires the proposals API routes and middleware onto a gin engine.
package router

import (
	"net/http"

	"github.com/Galinha2/super-nova-2177/internal/config"
	"github.com/Galinha2/super-nova-2177/internal/handlers"
	"github.com/Galinha2/super-nova-2177/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceName identifies the API in traces
const ServiceName = "supernova-api"

// Setup registers middleware and routes on r
func Setup(r *gin.Engine, h *handlers.Handlers, cfg config.Server) {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	if cfg.OTelEnabled {
		r.Use(middleware.TracingMiddleware(ServiceName)...)
	}

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads", "/metrics"})))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.StorageDriver == "local" {
		r.StaticFS("/uploads", http.Dir(cfg.UploadDir))
	}

	proposals := r.Group("/proposals")
	{
		proposals.GET("", h.ListProposals)
		proposals.POST("", h.CreateProposal)
		proposals.GET("/:id", h.GetProposal)
		proposals.GET("/:id/tally", h.GetTally)
	}

	r.POST("/votes", h.CastVote)
	r.DELETE("/votes", h.RetractVote)
	r.POST("/comments", h.AddComment)

	r.POST("/upload-image", h.UploadImage)
	r.POST("/upload-file", h.UploadFile)
}
