package main

import (
	"flag"
	"log"

	"github.com/inkpress/inkpress/config"
	"github.com/inkpress/inkpress/models"
	"github.com/inkpress/inkpress/routes"
	"github.com/inkpress/inkpress/utils"
)

func main() {
	initDB := flag.Bool("init-db", false, "destructively recreate the database schema and exit")
	flag.Parse()

	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase()

	if *initDB {
		if err := config.ResetSchema(db, &models.User{}, &models.Post{}); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		utils.Sugar.Info("Initialized the database.")
		return
	}

	if !db.Migrator().HasTable(&models.User{}) {
		log.Fatal("database schema missing; run with -init-db first")
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
