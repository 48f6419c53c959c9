package main

import (
	"log"

	"go-vacation/internal/app"
	"go-vacation/internal/config"
	"go-vacation/internal/shared/apperror"
	"go-vacation/internal/shared/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	if err := app.RunWorker(cfg); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
