package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/phillip/charity-ledger-go/config"
	ledger "github.com/phillip/charity-ledger-go/ledger"
	models "github.com/phillip/charity-ledger-go/models"
	utils "github.com/phillip/charity-ledger-go/utils"
)

// ---------------- DONATE ----------------
func CreateDonation(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := campaignID(c)
		if !ok {
			return
		}

		var input struct {
			Amount       int64  `json:"amount" binding:"required"`
			Message      string `json:"message"`
			ContactEmail string `json:"contact_email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		donor := c.GetString("address")
		donation, err := eng.Donate(c.Request.Context(), id, donor, input.Amount, input.Message)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		// Best-effort receipt; never fails the donation.
		if input.ContactEmail != "" {
			campaign, err := eng.GetCampaign(c.Request.Context(), id)
			if err == nil {
				if err := utils.SendDonationReceipt(input.ContactEmail, campaign.Title, donation.Amount); err != nil {
					log.Printf("Failed to send donation receipt: %v", err)
				}
			}
		}

		c.JSON(http.StatusCreated, donation)
	}
}

// ---------------- LIST ----------------
func ListDonations(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := campaignID(c)
		if !ok {
			return
		}

		donations, err := eng.ListDonations(c.Request.Context(), id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		if donations == nil {
			donations = []models.Donation{}
		}
		c.JSON(http.StatusOK, donations)
	}
}

// ---------------- REFUND ----------------
func RequestRefund(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := campaignID(c)
		if !ok {
			return
		}

		refunded, err := eng.RequestRefund(c.Request.Context(), id, c.GetString("address"))
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "refund processed",
			"id":       id,
			"refunded": refunded,
		})
	}
}

// ---------------- HISTORY ----------------
func DonationHistory(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := eng.DonationHistory(c.Request.Context(), c.GetString("address"))
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		c.JSON(http.StatusOK, history)
	}
}
