package main

import (
	"github.com/cppla/vitatrack/config"
	"github.com/cppla/vitatrack/models"
	"github.com/cppla/vitatrack/routes"
	"github.com/cppla/vitatrack/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.HealthRecord{}, &models.Goal{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
