package main

import (
	"log"

	"github.com/draganv/speedwatch-backend-go/internal/api"
	"github.com/draganv/speedwatch-backend-go/internal/config"
	"github.com/draganv/speedwatch-backend-go/internal/database"
	"github.com/draganv/speedwatch-backend-go/internal/repository"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	index := repository.NewLimitRepository(database.GetDB())

	router := api.SetupRouter(cfg, index)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
