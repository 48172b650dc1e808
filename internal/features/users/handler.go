package users

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/Anitej05/Civic-Connect/internal/pkg/logger"
	"github.com/Anitej05/Civic-Connect/internal/pkg/response"
)

type Handler struct {
	repo          *Repository
	webhookSecret string
}

func NewHandler(repo *Repository, webhookSecret string) *Handler {
	return &Handler{
		repo:          repo,
		webhookSecret: webhookSecret,
	}
}

// clerkEvent is the subset of Clerk's webhook envelope we consume.
type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID                    string `json:"id"`
		PrimaryEmailAddressID string `json:"primary_email_address_id"`
		EmailAddresses        []struct {
			ID           string `json:"id"`
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

func (e *clerkEvent) primaryEmail() string {
	for _, addr := range e.Data.EmailAddresses {
		if addr.ID == e.Data.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	if len(e.Data.EmailAddresses) > 0 {
		return e.Data.EmailAddresses[0].EmailAddress
	}
	return ""
}

// ClerkWebhook godoc
// @Summary Clerk webhook receiver
// @Description Provisions local user records from identity-provider events
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /webhooks/clerk [post]
func (h *Handler) ClerkWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Failed to read webhook payload", "INVALID_PAYLOAD")
		return
	}

	if h.webhookSecret != "" {
		wh, err := svix.NewWebhook(h.webhookSecret)
		if err != nil {
			response.InternalServerError(c, "Webhook verification unavailable", "WEBHOOK_CONFIG")
			return
		}
		if err := wh.Verify(payload, c.Request.Header); err != nil {
			response.Unauthorized(c, "Invalid webhook signature", "INVALID_SIGNATURE")
			return
		}
	}

	var event clerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		response.BadRequest(c, "Malformed webhook payload", "INVALID_PAYLOAD")
		return
	}

	switch event.Type {
	case "user.created":
		if event.Data.ID == "" {
			response.BadRequest(c, "Webhook event missing user id", "INVALID_PAYLOAD")
			return
		}
		user := &User{
			ClerkUserID: event.Data.ID,
			Email:       event.primaryEmail(),
			Role:        RoleCitizen,
		}
		if err := h.repo.Create(c.Request.Context(), user); err != nil {
			response.InternalServerError(c, "Failed to provision user", "DATABASE_ERROR")
			return
		}
		logger.Info("provisioned user %s from clerk webhook", event.Data.ID)
	default:
		// Unhandled event types are acknowledged so Clerk stops retrying.
		logger.Debug("ignoring clerk webhook event type %s", event.Type)
	}

	response.Success(c, gin.H{"received": true})
}

// GetMe godoc
// @Summary Current user profile
// @Description Returns the authenticated user's record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=users.User}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.repo.GetByClerkID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "User not found", "USER_NOT_FOUND")
		return
	}

	response.Success(c, user)
}
