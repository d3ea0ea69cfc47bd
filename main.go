package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/phillip/charity-ledger-go/config"
	ledger "github.com/phillip/charity-ledger-go/ledger"
	routes "github.com/phillip/charity-ledger-go/routes"
	store "github.com/phillip/charity-ledger-go/store"
)

func main() {
	cfg := config.Load()

	campaigns := store.NewMongo(cfg.MongoClient, cfg.DBName)
	gate := ledger.NewGate(cfg.AdminAddress)
	eng := ledger.NewEngine(campaigns, gate)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "If-None-Match"},
		ExposeHeaders: []string{"ETag", "Last-Modified"},
	}))

	routes.SetupRoutes(r, cfg, eng)

	log.Printf("Listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
