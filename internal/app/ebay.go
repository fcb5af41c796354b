package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/captainminh1999/my-webspace-sub000/internal/store"
	"github.com/captainminh1999/my-webspace-sub000/internal/util"
	"github.com/captainminh1999/my-webspace-sub000/internal/webhook"
)

// EbayChallenge answers the endpoint verification handshake.
func (s *Service) EbayChallenge(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", badRequest("challenge_code is required", nil)
	}
	return code, nil
}

// RecordAccountDeletion verifies a signed notification and stores it.
func (s *Service) RecordAccountDeletion(ctx context.Context, body []byte, signature string) (store.DeletionRecord, error) {
	if s.cfg.EbayVerificationToken == "" {
		return store.DeletionRecord{}, configError("Verification token not configured")
	}
	if err := webhook.Verify([]byte(s.cfg.EbayVerificationToken), body, signature); err != nil {
		return store.DeletionRecord{}, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Invalid signature", nil)
	}

	n, err := webhook.ParseNotification(body)
	if err != nil {
		if errors.Is(err, webhook.ErrMalformedNotification) {
			return store.DeletionRecord{}, badRequest("Notification body is not valid JSON", nil)
		}
		return store.DeletionRecord{}, err
	}

	rec := store.DeletionRecord{
		ID:             util.NewID("del"),
		NotificationID: n.Notification.NotificationID,
		Topic:          n.Metadata.Topic,
		UserID:         n.Notification.Data.UserID,
		Username:       n.Notification.Data.Username,
		EIASToken:      n.Notification.Data.EIASToken,
		EventDate:      n.Notification.EventDate,
		ReceivedAt:     s.now().UTC(),
	}
	if err := s.store.InsertDeletionRecord(ctx, rec); err != nil {
		return store.DeletionRecord{}, fmt.Errorf("store deletion record: %w", err)
	}
	s.logger.Info("account deletion recorded", "notification_id", rec.NotificationID, "topic", rec.Topic)
	return rec, nil
}
