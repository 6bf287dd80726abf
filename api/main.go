package main

import (
	"os"

	"tronwatch/api/internal/app"
	"tronwatch/api/internal/config"
	"tronwatch/api/internal/infra/nats"
	"tronwatch/api/internal/infra/postgres"
	"tronwatch/api/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load(os.Getenv("ENVPATH"))
	if err != nil {
		panic("Can't load .env file: " + err.Error())
	}

	config := config.ReadConfig()
	config.DB = postgres.Init(config)

	unixLogger := logger.Init(config)

	natsinfra := nats.Init(config, unixLogger)

	app := &app.App{
		Config:    config,
		Db:        config.DB,
		NatsInfra: natsinfra,
		Log:       unixLogger,
	}

	app.Start()
}
