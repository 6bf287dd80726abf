package v1

import (
	"net/http"

	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/logger"

	"github.com/gin-gonic/gin"
)

// GET /{version}/health
func (h *Handler) health(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusOK, responseHealth{
		Status:  "ok",
		Monitor: "running",
	})
}

// GET /{version}/stats
func (h *Handler) stats(c *gin.Context) {
	var errid = logger.GenErrorId()

	stats, err := h.services.Payments.Stats()
	if err != nil {
		responseErr(c, http.StatusInternalServerError, domain.ErrMsgInternalServerError, errid)
		return
	}

	c.AbortWithStatusJSON(http.StatusOK, stats)
}

func (h *Handler) initSystemRoutes(g *gin.RouterGroup) {
	g.GET("/health", h.health)
	g.GET("/stats", h.stats)
}
