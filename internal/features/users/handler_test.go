package users

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestClerkEvent_PrimaryEmail(t *testing.T) {
	payload := `{
		"type": "user.created",
		"data": {
			"id": "user_2abc",
			"primary_email_address_id": "idn_2",
			"email_addresses": [
				{"id": "idn_1", "email_address": "old@example.com"},
				{"id": "idn_2", "email_address": "current@example.com"}
			]
		}
	}`

	var event clerkEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))
	require.Equal(t, "user.created", event.Type)
	require.Equal(t, "user_2abc", event.Data.ID)
	require.Equal(t, "current@example.com", event.primaryEmail())
}

func TestClerkEvent_PrimaryEmailFallback(t *testing.T) {
	var event clerkEvent
	require.NoError(t, json.Unmarshal([]byte(`{
		"type": "user.created",
		"data": {
			"id": "user_2abc",
			"email_addresses": [{"id": "idn_1", "email_address": "only@example.com"}]
		}
	}`), &event))
	require.Equal(t, "only@example.com", event.primaryEmail())

	event = clerkEvent{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"user.created","data":{"id":"user_2abc"}}`), &event))
	require.Equal(t, "", event.primaryEmail())
}

// With no webhook secret configured, signature verification is skipped and
// malformed bodies are still rejected.
func TestClerkWebhook_MalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil, "")

	r := gin.New()
	r.POST("/webhooks/clerk", handler.ClerkWebhook)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhooks/clerk", strings.NewReader("{not json"))
	r.ServeHTTP(w, req)

	require.Equal(t, 400, w.Code)
}

func TestClerkWebhook_IgnoresUnknownEventTypes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil, "")

	r := gin.New()
	r.POST("/webhooks/clerk", handler.ClerkWebhook)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhooks/clerk",
		strings.NewReader(`{"type":"session.created","data":{"id":"sess_1"}}`))
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
}

func TestClerkWebhook_RejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(nil, "whsec_dGVzdHNlY3JldHRlc3RzZWNyZXQ=")

	r := gin.New()
	r.POST("/webhooks/clerk", handler.ClerkWebhook)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhooks/clerk",
		strings.NewReader(`{"type":"user.created","data":{"id":"user_2abc"}}`))
	req.Header.Set("svix-id", "msg_test")
	req.Header.Set("svix-timestamp", "1700000000")
	req.Header.Set("svix-signature", "v1,invalid")
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}
