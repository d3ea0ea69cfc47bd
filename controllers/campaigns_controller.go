package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/phillip/charity-ledger-go/config"
	ledger "github.com/phillip/charity-ledger-go/ledger"
	models "github.com/phillip/charity-ledger-go/models"
	utils "github.com/phillip/charity-ledger-go/utils"
)

// campaignResponse decorates a campaign with the display helpers the
// front-end renders. Both are derived from queried fields only; the
// engine stays the single source of truth for anything decisive.
type campaignResponse struct {
	models.Campaign
	DaysLeft      int64 `json:"days_left"`
	PercentFunded int64 `json:"percent_funded"`
}

func toResponse(c models.Campaign) campaignResponse {
	// Rounds up: a campaign with any fraction of a day left shows the
	// next whole day, never 0 while still open.
	var daysLeft int64
	if secs := int64(time.Until(c.Deadline).Seconds()); secs > 0 {
		daysLeft = (secs + 86399) / 86400
	}
	var percent int64
	if c.GoalAmount > 0 {
		percent = c.AmountRaised * 100 / c.GoalAmount
	}
	return campaignResponse{Campaign: c, DaysLeft: daysLeft, PercentFunded: percent}
}

// respondLedgerError maps the engine's error taxonomy to HTTP statuses.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrCampaignNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
	case errors.Is(err, ledger.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, ledger.ErrAlreadyWithdrawn):
		c.JSON(http.StatusConflict, gin.H{"error": "funds already withdrawn"})
	case errors.Is(err, ledger.ErrAlreadyVerified):
		c.JSON(http.StatusConflict, gin.H{"error": "campaign already verified"})
	case errors.Is(err, ledger.ErrNotEligible):
		c.JSON(http.StatusConflict, gin.H{"error": "not eligible for refund"})
	case errors.Is(err, ledger.ErrNoDonationFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no donation found"})
	case errors.Is(err, ledger.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func campaignID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return 0, false
	}
	return id, true
}

// parseDeadline accepts RFC3339 plus a few date-only fallbacks.
func parseDeadline(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return parsed, nil
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, e := time.Parse(layout, raw); e == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// ---------------- CREATE ----------------
func CreateCampaign(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.GetString("address")

		// --- Bind form fields ---
		var input struct {
			Title       string `form:"title" binding:"required"`
			Description string `form:"description" binding:"required"`
			Category    string `form:"category" binding:"required"`
			GoalAmount  int64  `form:"goal_amount" binding:"required"`
			Deadline    string `form:"deadline" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		deadline, err := parseDeadline(input.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline format, use RFC3339 or YYYY-MM-DD"})
			return
		}

		// --- Pin supporting document, if provided ---
		var documentRef string
		fileHeader, err := c.FormFile("document")
		if err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			documentRef, err = utils.UploadCampaignDocument(file, fileHeader)
			file.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "document upload failed",
					"details": err.Error(),
					"file":    fileHeader.Filename,
				})
				return
			}
		}

		id, err := eng.CreateCampaign(c.Request.Context(), owner, ledger.CreateCampaignInput{
			Title:       input.Title,
			Description: input.Description,
			DocumentRef: documentRef,
			Category:    input.Category,
			GoalAmount:  input.GoalAmount,
			Deadline:    deadline,
		})
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":      id,
			"message": "campaign created",
		})
	}
}

// ---------------- LIST ----------------
func ListCampaigns(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var campaigns []models.Campaign
		var err error
		switch {
		case c.Query("category") != "":
			campaigns, err = eng.ListCampaignsByCategory(ctx, c.Query("category"))
		case c.Query("owner") != "":
			campaigns, err = eng.ListCampaignsByOwner(ctx, c.Query("owner"))
		default:
			campaigns, err = eng.ListCampaigns(ctx)
		}
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		if len(campaigns) == 0 {
			c.JSON(http.StatusOK, []campaignResponse{})
			return
		}

		// --- Pick the most recently updated campaign ---
		latest := campaigns[0]
		for _, cp := range campaigns {
			if cp.UpdatedAt.After(latest.UpdatedAt) {
				latest = cp
			}
		}

		// --- Generate ETag from latest campaign ---
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		out := make([]campaignResponse, 0, len(campaigns))
		for _, cp := range campaigns {
			out = append(out, toResponse(cp))
		}
		c.JSON(http.StatusOK, out)
	}
}

// ---------------- GET ----------------
func GetCampaign(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := campaignID(c)
		if !ok {
			return
		}

		campaign, err := eng.GetCampaign(c.Request.Context(), id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		etag := utils.GenerateETag(campaign.ID, campaign.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, toResponse(campaign))
	}
}

// ---------------- RELEASE ----------------
func ReleaseFunds(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := campaignID(c)
		if !ok {
			return
		}

		released, err := eng.ReleaseFunds(c.Request.Context(), id, c.GetString("address"))
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "funds released",
			"id":       id,
			"released": released,
		})
	}
}

// ---------------- VERIFY ----------------
func VerifyCampaign(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := campaignID(c)
		if !ok {
			return
		}

		if err := eng.VerifyCampaign(c.Request.Context(), id, c.GetString("address")); err != nil {
			respondLedgerError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "campaign verified",
			"id":      id,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteCampaign(cfg *config.Config, eng *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := campaignID(c)
		if !ok {
			return
		}

		if err := eng.DeleteCampaign(c.Request.Context(), id, c.GetString("address")); err != nil {
			respondLedgerError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "campaign deleted",
			"id":      id,
		})
	}
}
