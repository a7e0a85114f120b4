package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// New builds the HTTP router. CORS is wide open: the browser extension and
// the bots call this API from arbitrary origins.
func New(h *Handlers) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery(), requestID())
	g.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
	}))

	g.GET("/", h.Root)
	g.POST("/analyze/text", h.AnalyzeText)
	g.POST("/analyze/image", h.AnalyzeImage)
	g.GET("/history", h.History)

	return g
}

// requestID tags each request so pipeline log lines can be correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
