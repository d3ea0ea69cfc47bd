package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	config "github.com/phillip/charity-ledger-go/config"
	ledger "github.com/phillip/charity-ledger-go/ledger"
	routes "github.com/phillip/charity-ledger-go/routes"
	store "github.com/phillip/charity-ledger-go/store"
)

const (
	testSecret = "test-secret"
	adminAddr  = "0xadmin"
	ownerAddr  = "0xowner"
	donorAddr  = "0xdonor"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:    testSecret,
		AdminAddress: adminAddr,
	}
	eng := ledger.NewEngine(store.NewMemory(), ledger.NewGate(adminAddr))

	r := gin.New()
	routes.SetupRoutes(r, cfg, eng)
	return r
}

func tokenFor(t *testing.T, address string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": address,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, address, contentType string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if address != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, address))
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createTestCampaign(t *testing.T, r *gin.Engine) int64 {
	t.Helper()
	form := url.Values{
		"title":       {"Flood relief"},
		"description": {"Emergency support"},
		"category":    {"Emergency"},
		"goal_amount": {"1000"},
		"deadline":    {time.Now().Add(24 * time.Hour).Format(time.RFC3339)},
	}
	resp := doRequest(t, r, http.MethodPost, "/campaigns", ownerAddr,
		"application/x-www-form-urlencoded", form.Encode())
	if resp.Code != http.StatusCreated {
		t.Fatalf("create campaign: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return out.ID
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	resp := doRequest(t, r, http.MethodPost, "/campaigns", "", "application/x-www-form-urlencoded", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/campaigns", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}

func TestCampaignLifecycle(t *testing.T) {
	r := newTestRouter(t)
	id := createTestCampaign(t, r)

	// Public list shows the campaign.
	resp := doRequest(t, r, http.MethodGet, "/campaigns", "", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("ETag") == "" {
		t.Fatalf("list missing ETag")
	}

	// Donate.
	body := `{"amount": 500, "message": "stay strong"}`
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/donations", id), donorAddr,
		"application/json", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("donate: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// Raised amount reflected on the campaign.
	resp = doRequest(t, r, http.MethodGet, fmt.Sprintf("/campaigns/%d", id), "", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.Code)
	}
	var campaign struct {
		AmountRaised  int64 `json:"amount_raised"`
		PercentFunded int64 `json:"percent_funded"`
		DaysLeft      int64 `json:"days_left"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &campaign); err != nil {
		t.Fatalf("decode campaign: %v", err)
	}
	if campaign.AmountRaised != 500 {
		t.Fatalf("amount raised: want 500, got %d", campaign.AmountRaised)
	}
	if campaign.PercentFunded != 50 {
		t.Fatalf("percent funded: want 50, got %d", campaign.PercentFunded)
	}
	// Deadline is just under 24h away by now; days left rounds up.
	if campaign.DaysLeft != 1 {
		t.Fatalf("days left: want 1, got %d", campaign.DaysLeft)
	}

	// Verification is admin-only.
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/verify", id), donorAddr, "", "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("donor verify: expected 403, got %d", resp.Code)
	}
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/verify", id), adminAddr, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("admin verify: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Release is owner-only and exactly-once.
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/release", id), donorAddr, "", "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("donor release: expected 403, got %d", resp.Code)
	}
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/release", id), ownerAddr, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("owner release: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/release", id), ownerAddr, "", "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("second release: expected 409, got %d", resp.Code)
	}

	// Refund after withdrawal is rejected.
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/refund", id), donorAddr, "", "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("refund after withdraw: expected 409, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteKeepsDonationHistory(t *testing.T) {
	r := newTestRouter(t)
	id := createTestCampaign(t, r)

	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/donations", id), donorAddr,
		"application/json", `{"amount": 42}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("donate: expected 201, got %d", resp.Code)
	}

	resp = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/campaigns/%d", id), ownerAddr, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Campaign is gone from reads...
	resp = doRequest(t, r, http.MethodGet, fmt.Sprintf("/campaigns/%d", id), "", "", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("get tombstone: expected 404, got %d", resp.Code)
	}

	// ...but its donation history is not.
	resp = doRequest(t, r, http.MethodGet, fmt.Sprintf("/campaigns/%d/donations", id), "", "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list donations: expected 200, got %d", resp.Code)
	}
	var donations []struct {
		Amount int64 `json:"amount"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &donations); err != nil {
		t.Fatalf("decode donations: %v", err)
	}
	if len(donations) != 1 || donations[0].Amount != 42 {
		t.Fatalf("history lost: %+v", donations)
	}
}

func TestDonationHistoryEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createTestCampaign(t, r)

	resp := doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/donations", id), donorAddr,
		"application/json", `{"amount": 7}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("donate: expected 201, got %d", resp.Code)
	}

	resp = doRequest(t, r, http.MethodGet, "/me/donations", donorAddr, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", resp.Code)
	}
	var history []struct {
		CampaignTitle string `json:"campaign_title"`
		Amount        int64  `json:"amount"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 1 || history[0].Amount != 7 || history[0].CampaignTitle != "Flood relief" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestInvalidInputs(t *testing.T) {
	r := newTestRouter(t)
	id := createTestCampaign(t, r)

	// Unknown category.
	form := url.Values{
		"title":       {"x"},
		"description": {"y"},
		"category":    {"Yachts"},
		"goal_amount": {"10"},
		"deadline":    {time.Now().Add(time.Hour).Format(time.RFC3339)},
	}
	resp := doRequest(t, r, http.MethodPost, "/campaigns", ownerAddr,
		"application/x-www-form-urlencoded", form.Encode())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown category: expected 400, got %d", resp.Code)
	}

	// Negative donation.
	resp = doRequest(t, r, http.MethodPost, fmt.Sprintf("/campaigns/%d/donations", id), donorAddr,
		"application/json", `{"amount": -5}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("negative donation: expected 400, got %d", resp.Code)
	}

	// Unknown campaign id.
	resp = doRequest(t, r, http.MethodPost, "/campaigns/999/donations", donorAddr,
		"application/json", `{"amount": 5}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("unknown campaign: expected 404, got %d", resp.Code)
	}

	// Non-numeric id.
	resp = doRequest(t, r, http.MethodGet, "/campaigns/abc", "", "", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", resp.Code)
	}
}
