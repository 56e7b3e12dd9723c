package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/navikt/roompanel/internal/logging"
	"github.com/navikt/roompanel/internal/models"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body, prefixed "sha256="
const SignatureHeader = "X-Signature"

const signaturePrefix = "sha256="

// WebhookHandler processes schedule events from the calendar integration
type WebhookHandler struct {
	schedule    ScheduleServicer
	rooms       RoomFinder
	secretToken string
	log         *slog.Logger
}

// NewWebhookHandler creates a webhook handler. An empty secret disables
// signature verification.
func NewWebhookHandler(schedule ScheduleServicer, rooms RoomFinder, secretToken string, log *slog.Logger) *WebhookHandler {
	if secretToken == "" {
		log.Warn("schedule webhook verification disabled, SCHEDULE_WEBHOOK_SECRET not set")
	}
	return &WebhookHandler{
		schedule:    schedule,
		rooms:       rooms,
		secretToken: secretToken,
		log:         log,
	}
}

// ServeHTTP handles POST /webhook/schedule
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.log.Error("reading webhook body", "error", err)
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	if h.secretToken != "" && !VerifySignature(h.secretToken, body, r.Header.Get(SignatureHeader)) {
		h.log.Warn("invalid webhook signature", "remote", r.RemoteAddr)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var event models.ScheduleEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.log.Debug("parsing webhook JSON", "error", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := event.Validate(); err != nil {
		h.log.Info("rejected webhook event", "event", logging.Sanitize(event.Event), "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := h.rooms.Room(event.Payload.Room); !ok {
		h.log.Info("webhook event for unknown room", "room", logging.Sanitize(event.Payload.Room))
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err = h.schedule.ApplyEvent(ctx, &event)
	switch {
	case errors.Is(err, models.ErrMeetingNotFound):
		// Deletes are idempotent for the sender
		h.log.Debug("webhook deleted unknown meeting", "room", event.Payload.Room)
	case err != nil:
		h.log.Error("applying webhook event", "event", event.Event, "room", event.Payload.Room, "error", err)
		http.Error(w, "Error applying event", http.StatusInternalServerError)
		return
	default:
		h.log.Info("webhook event applied", "event", event.Event, "room", event.Payload.Room)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Sign returns the signature header value for body
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks header against the HMAC-SHA256 of body
func VerifySignature(secret string, body []byte, header string) bool {
	if !strings.HasPrefix(header, signaturePrefix) {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, body)), []byte(header))
}
