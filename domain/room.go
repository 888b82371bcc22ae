package domain

import (
	"sort"
	"time"
)

// Room is a chat thread between exactly two participants, optionally
// scoped to one listing. For a given (unordered pair, listing) key at
// most one room should exist; its identity never changes once created.
type Room struct {
	ID                string
	Participants      []string
	ListingID         string
	CreatedAt         time.Time
	LastMessageText   string
	LastMessageAt     time.Time
	LastMessageSender string
}

// CanonicalPair orders two identity references lexicographically so a
// room created by either participant is found by the other regardless
// of call order.
func CanonicalPair(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}

func (r Room) HasParticipant(id string) bool {
	for _, p := range r.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// LastActivityAt is the directory sort key: the last message time, or
// the creation time for rooms that have no messages yet.
func (r Room) LastActivityAt() time.Time {
	if r.LastMessageAt.IsZero() {
		return r.CreatedAt
	}
	return r.LastMessageAt
}
