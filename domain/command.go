package domain

// ResolveRoomCommand asks for the room between two participants,
// optionally scoped to a listing.
type ResolveRoomCommand struct {
	ParticipantA string `validate:"required"`
	ParticipantB string `validate:"required"`
	ListingID    string
}

type SendMessageCommand struct {
	RoomID string `validate:"required"`
	Sender string `validate:"required"`
	Text   string `validate:"required"`
}

type PostListingCommand struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	Price       string
	Address     string
	City        string `validate:"required"`
	Image       []byte
	ImageURL    string
	PostedBy    Identity
}
