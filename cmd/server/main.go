package main

import (
	"log"

	"github.com/mrhujaifa/prime-healthcare-backend/internal/app"
	"github.com/mrhujaifa/prime-healthcare-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("CONFIG_LOAD_FAILED: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("APP_INIT_FAILED: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("SERVER_FAILED: %v", err)
	}
}
