// Package server exposes the translator, inference client, dictionary and
// discussion service over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanvq/nungdict/internal/config"
	"github.com/hanvq/nungdict/internal/dictionary"
	"github.com/hanvq/nungdict/internal/discussion"
	"github.com/hanvq/nungdict/internal/inference"
	"github.com/hanvq/nungdict/internal/translator"
)

// Resolver is the translation entry point the translate endpoint needs.
type Resolver interface {
	Resolve(ctx context.Context, text, targetLang string) (*translator.Result, error)
}

// Dependencies carries everything the router serves.
type Dependencies struct {
	Resolver    Resolver
	Inference   inference.Client
	Dictionary  dictionary.Repository
	Discussions *discussion.Service
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(cfg config.ServerConfig, deps Dependencies) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.AllowOrigin != "" {
		engine.Use(corsMiddleware(cfg.AllowOrigin))
	}

	api := engine.Group("/api")

	translate := NewTranslateHandler(deps.Resolver, deps.Inference)
	api.POST("/translate", translate.Translate)
	api.POST("/chat", translate.Chat)
	api.POST("/spellcheck", translate.CheckSpelling)

	dict := NewDictionaryHandler(deps.Dictionary)
	api.GET("/dictionary/:lang", dict.List)
	api.GET("/dictionary/:lang/:key", dict.Get)
	api.PUT("/dictionary/:lang/:key", dict.Put)
	api.DELETE("/dictionary/:lang/:key", dict.Delete)

	discussions := NewDiscussionHandler(deps.Discussions)
	api.POST("/discussions", discussions.Create)
	api.GET("/discussions", discussions.List)
	api.PATCH("/discussions/:id", discussions.Update)
	api.POST("/discussions/:id/like", discussions.ToggleLike)
	api.POST("/discussions/:id/report", discussions.Report)
	api.GET("/reports", discussions.ListReports)
	api.POST("/reports/:id/moderate", discussions.Moderate)

	return engine
}

func corsMiddleware(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
