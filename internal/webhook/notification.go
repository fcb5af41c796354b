package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedNotification = errors.New("malformed notification")

// Notification is the envelope of a marketplace account deletion event.
type Notification struct {
	Metadata struct {
		Topic         string `json:"topic"`
		SchemaVersion string `json:"schemaVersion"`
	} `json:"metadata"`
	Notification struct {
		NotificationID string `json:"notificationId"`
		EventDate      string `json:"eventDate"`
		PublishDate    string `json:"publishDate"`
		Data           struct {
			Username  string `json:"username"`
			UserID    string `json:"userId"`
			EIASToken string `json:"eiasToken"`
		} `json:"data"`
	} `json:"notification"`
}

func ParseNotification(body []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}
	return n, nil
}
