package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Adarsh-yadav-ui/Sangeet/internal/auth"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/cache"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/dto"
	"github.com/Adarsh-yadav-ui/Sangeet/internal/service"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives Clerk identity events. Delivery is at-least-once
// and may arrive out of order; the sync service is idempotent, so a retried
// or duplicated delivery converges to the same state.
type WebhookHandler struct {
	verifier *auth.WebhookVerifier
	sync     *service.SyncService
	dedup    *cache.WebhookDedup
}

// NewWebhookHandler returns a new WebhookHandler. dedup may be nil.
func NewWebhookHandler(verifier *auth.WebhookVerifier, sync *service.SyncService, dedup *cache.WebhookDedup) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, sync: sync, dedup: dedup}
}

// HandleClerk godoc
// @Summary      Clerk webhook receiver
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /webhooks/clerk [post]
func (h *WebhookHandler) HandleClerk(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	deliveryID := c.GetHeader(auth.HeaderWebhookID)
	timestamp := c.GetHeader(auth.HeaderWebhookTimestamp)
	signature := c.GetHeader(auth.HeaderWebhookSignature)
	if err := h.verifier.Verify(deliveryID, timestamp, signature, body); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if h.dedup != nil && deliveryID != "" {
		seen, err := h.dedup.Seen(c.Request.Context(), deliveryID)
		if err != nil {
			log.Printf("webhook: dedup check for %s: %v", deliveryID, err)
		} else if seen {
			c.JSON(http.StatusOK, gin.H{"ok": true, "duplicate": true})
			return
		}
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	if err := h.dispatch(c, event); err != nil {
		return
	}

	if h.dedup != nil && deliveryID != "" {
		// Marked only after processing succeeded, so a failed delivery is
		// retried rather than skipped.
		if err := h.dedup.MarkSeen(c.Request.Context(), deliveryID); err != nil {
			log.Printf("webhook: dedup mark for %s: %v", deliveryID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *WebhookHandler) dispatch(c *gin.Context, event dto.WebhookEvent) error {
	ctx := c.Request.Context()
	switch event.Type {
	case dto.EventUserCreated, dto.EventUserUpdated:
		var payload dto.ClerkUserPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event data"})
			return err
		}
		if _, err := h.sync.Upsert(ctx, payload); err != nil {
			return h.syncError(c, err)
		}
	case dto.EventUserDeleted:
		var payload dto.ClerkDeletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event data"})
			return err
		}
		if err := h.sync.Remove(ctx, payload.ID); err != nil {
			return h.syncError(c, err)
		}
	default:
		// Clerk sends more event types than we mirror; acknowledge them so
		// they are not redelivered.
		log.Printf("webhook: ignoring event type %q", event.Type)
	}
	return nil
}

func (h *WebhookHandler) syncError(c *gin.Context, err error) error {
	if errors.Is(err, service.ErrInvalidEvent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return err
	}
	// Non-2xx makes the provider redeliver; reconciliation is idempotent.
	c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
	return err
}
