package v1

import (
	"tronwatch/api/internal/config"
	"tronwatch/api/internal/infra/nats"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	services  *service.Services
	db        *gorm.DB
	config    *config.Config
	Natsinfra *nats.NatsInfra
	log       logger.Logger
}

func (h *Handler) InitRoutes(g *gin.RouterGroup) {
	{
		h.initPaymentRoutes(g)
		h.initSystemRoutes(g)
	}
}

func NewHandler(services *service.Services, db *gorm.DB, config *config.Config, natsinfra *nats.NatsInfra, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		Natsinfra: natsinfra,
		log:       log,
		services:  services,
		db:        db,
	}
}
