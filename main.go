package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Afiolabi/kaji-whot-client/internal/app"
	"github.com/Afiolabi/kaji-whot-client/internal/config"
	"github.com/Afiolabi/kaji-whot-client/internal/video"
)

func main() {
	fmt.Println("Kaji Whot Client")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	client, err := app.Bootstrap(cfg, video.NewNopProvider())
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Client exited: %v", err)
	}
	log.Println("Shutdown complete")
}
