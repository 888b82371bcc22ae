// This file defines Message events and related rules.
// Messages are immutable and validated before persistence.
package domain

import "time"

// Message represents an immutable chat event. SentAt is assigned by
// the store, not the sender.
type Message struct {
	ID     string
	RoomID string
	Sender string
	Text   string
	SentAt time.Time
}
