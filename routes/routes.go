package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/phillip/charity-ledger-go/config"
	controllers "github.com/phillip/charity-ledger-go/controllers"
	ledger "github.com/phillip/charity-ledger-go/ledger"
	middleware "github.com/phillip/charity-ledger-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, eng *ledger.Engine) {
	// public reads
	r.GET("/campaigns", controllers.ListCampaigns(cfg, eng))
	r.GET("/campaigns/:id", controllers.GetCampaign(cfg, eng))
	r.GET("/campaigns/:id/donations", controllers.ListDonations(cfg, eng))

	// protected
	auth := middleware.AuthMiddleware(cfg)

	campaigns := r.Group("/campaigns")
	campaigns.Use(auth)
	{
		campaigns.POST("", controllers.CreateCampaign(cfg, eng))
		campaigns.DELETE("/:id", controllers.DeleteCampaign(cfg, eng))
		campaigns.POST("/:id/donations", controllers.CreateDonation(cfg, eng))
		campaigns.POST("/:id/release", controllers.ReleaseFunds(cfg, eng))
		campaigns.POST("/:id/verify", controllers.VerifyCampaign(cfg, eng))
		campaigns.POST("/:id/refund", controllers.RequestRefund(cfg, eng))
	}

	me := r.Group("/me")
	me.Use(auth)
	{
		me.GET("/donations", controllers.DonationHistory(cfg, eng))
	}
}
