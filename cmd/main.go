package main

import (
	"Foodies-Backend/cmd/config"
	"Foodies-Backend/internal/utils"
	"Foodies-Backend/internal/utils/logging"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	utils.LoadConfig()

	app, reconciler, err := config.NewApp(context.Background())
	if err != nil {
		log.Fatalf("failed to start app: %v", err)
	}

	port := utils.GetConfigDefault("APP_PORT", "8080")
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("failed to listen on port %s: %v", port, err)
		}
	}()
	logging.Log.WithField("port", port).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	reconciler.Stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logging.Log.WithError(err).Error("shutdown failed")
	}
}
