package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/delivery"
	"tronwatch/api/internal/infra/nats"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/service"

	"github.com/gin-gonic/gin"
	cors "github.com/rs/cors/wrapper/gin"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Db        *gorm.DB
	NatsInfra *nats.NatsInfra
	Log       logger.Logger
}

func (app *App) Start() {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(cors.Default())

	services := service.NewServices(app.Db, app.NatsInfra, app.Log, app.Config)

	app.Autostart(services)

	{
		h := delivery.InitHandler(services, app.Db, app.Config, app.NatsInfra, app.Log)

		h.InitAPI(r)
	}

	eChan := make(chan error)
	interrupt := make(chan os.Signal, 1)

	fmt.Println("api is starting on", app.Config.Api.Ipv4)

	go func() {
		err := r.Run(app.Config.Api.Ipv4)
		if err != nil {
			eChan <- fmt.Errorf("listen and serve: %w", err)
		}
	}()

	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-eChan:
		app.Log.TemplHTTPError("app fatal error", app.Config.Api.Ipv4, err)
		return
	case <-interrupt:
		fmt.Println("shutting down, waiting for the monitor cycle")
		services.Monitor.Stop()
		return
	}
}

// start autostart services
func (app *App) Autostart(services *service.Services) {
	fmt.Println("Autostart: start payment monitor")
	services.Monitor.Start()
}
