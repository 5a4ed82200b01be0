package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/aulahub/aulahub-backend/internal/app"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Fatal("Failed to start realtime forwarder", "error", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	application.Log.Info("Starting server", "port", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Fatal("Server exited", "error", err)
	}
}
