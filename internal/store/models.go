package store

import "time"

const DeletionsCollection = "ebayAccountDeletions"

// Document is a schema-less stored document.
type Document map[string]any

// StripID removes the internal identifier before a document leaves the store.
func StripID(doc Document) Document {
	if doc == nil {
		return nil
	}
	delete(doc, "_id")
	return doc
}

type FindOptions struct {
	// Limit caps the number of documents; zero means no cap.
	Limit int64
	// NewestFirst orders by descending _id, which follows insertion time
	// for generated object ids.
	NewestFirst bool
}

// DeletionRecord is what the eBay account deletion webhook keeps per
// notification.
type DeletionRecord struct {
	ID             string    `bson:"_id" json:"id"`
	NotificationID string    `bson:"notificationId" json:"notificationId"`
	Topic          string    `bson:"topic" json:"topic"`
	UserID         string    `bson:"userId" json:"userId"`
	Username       string    `bson:"username" json:"username"`
	EIASToken      string    `bson:"eiasToken" json:"eiasToken"`
	EventDate      string    `bson:"eventDate" json:"eventDate"`
	ReceivedAt     time.Time `bson:"receivedAt" json:"receivedAt"`
}
