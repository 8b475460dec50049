package main

import (
	"log/slog"
	"os"

	"github.com/cinetick/cinema-pos/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; configuration falls back to real
	// environment variables and flag defaults.
	godotenv.Load()

	err := app.Run()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stdout, nil)).Error(err.Error())
		os.Exit(1)
	}
}
