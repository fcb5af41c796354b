package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/captainminh1999/my-webspace-sub000/internal/store"
	"github.com/captainminh1999/my-webspace-sub000/internal/webhook"
)

const deletionBody = `{
  "metadata": {"topic": "MARKETPLACE_ACCOUNT_DELETION", "schemaVersion": "1.0"},
  "notification": {
    "notificationId": "n-42",
    "eventDate": "2026-10-01T08:00:00.000Z",
    "publishDate": "2026-10-01T08:00:01.000Z",
    "data": {"username": "buyer1", "userId": "u-7", "eiasToken": "tok"}
  }
}`

func TestEbayChallengeEchoesCode(t *testing.T) {
	svc := newTestService(testConfig(), Deps{})
	code, err := svc.EbayChallenge(" abc123 ")
	if err != nil || code != "abc123" {
		t.Fatalf("EbayChallenge() = %q, %v", code, err)
	}
	_, err = svc.EbayChallenge("")
	expectDomainError(t, err, http.StatusBadRequest)
}

func TestRecordAccountDeletion(t *testing.T) {
	cfg := testConfig()
	cfg.EbayVerificationToken = "verify-me"
	var stored store.DeletionRecord
	svc := newTestService(cfg, Deps{Store: &fakeStore{
		insertDeletionRecordFn: func(_ context.Context, rec store.DeletionRecord) error {
			stored = rec
			return nil
		},
	}})
	fixed := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	body := []byte(deletionBody)
	rec, err := svc.RecordAccountDeletion(context.Background(), body, webhook.Sign([]byte("verify-me"), body))
	if err != nil {
		t.Fatalf("RecordAccountDeletion() error = %v", err)
	}
	if !strings.HasPrefix(rec.ID, "del") {
		t.Fatalf("unexpected id %q", rec.ID)
	}
	if stored.ID != rec.ID || stored.NotificationID != "n-42" || stored.UserID != "u-7" || stored.Username != "buyer1" {
		t.Fatalf("unexpected stored record %+v", stored)
	}
	if stored.Topic != "MARKETPLACE_ACCOUNT_DELETION" || !stored.ReceivedAt.Equal(fixed) {
		t.Fatalf("unexpected stored record %+v", stored)
	}
}

func TestRecordAccountDeletionRejections(t *testing.T) {
	body := []byte(deletionBody)

	svc := newTestService(testConfig(), Deps{})
	_, err := svc.RecordAccountDeletion(context.Background(), body, webhook.Sign([]byte("x"), body))
	if domainErr := expectDomainError(t, err, http.StatusInternalServerError); domainErr.Code != "CONFIG_ERROR" {
		t.Fatalf("expected CONFIG_ERROR, got %s", domainErr.Code)
	}

	cfg := testConfig()
	cfg.EbayVerificationToken = "verify-me"
	svc = newTestService(cfg, Deps{Store: &fakeStore{
		insertDeletionRecordFn: func(context.Context, store.DeletionRecord) error {
			t.Fatal("rejected notifications must not be stored")
			return nil
		},
	}})
	for _, sig := range []string{"", "deadbeef", webhook.Sign([]byte("other"), body)} {
		_, err := svc.RecordAccountDeletion(context.Background(), body, sig)
		expectDomainError(t, err, http.StatusUnauthorized)
	}

	notJSON := []byte("not json")
	_, err = svc.RecordAccountDeletion(context.Background(), notJSON, webhook.Sign([]byte("verify-me"), notJSON))
	expectDomainError(t, err, http.StatusBadRequest)
}

func TestRecordAccountDeletionStoreFailure(t *testing.T) {
	cfg := testConfig()
	cfg.EbayVerificationToken = "verify-me"
	svc := newTestService(cfg, Deps{Store: &fakeStore{
		insertDeletionRecordFn: func(context.Context, store.DeletionRecord) error {
			return errors.New("write concern")
		},
	}})
	body := []byte(deletionBody)
	_, err := svc.RecordAccountDeletion(context.Background(), body, webhook.Sign([]byte("verify-me"), body))
	if err == nil {
		t.Fatal("expected error")
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		t.Fatalf("store failures are server errors, got %+v", domainErr)
	}
}
