package services

import (
	"giveboard/domain"
	"giveboard/store"
)

// Collection layout. Messages live under their room, so they are
// only ever addressed through the room's identifier.
const (
	CollectionRooms      = "chats"
	CollectionListings   = "listings"
	CollectionCategories = "categories"
	CollectionSliders    = "sliders"
)

func MessagesCollection(roomID string) string {
	return CollectionRooms + "/" + roomID + "/messages"
}

const (
	fieldParticipants      = "participants"
	fieldListingID         = "listingId"
	fieldCreatedAt         = "createdAt"
	fieldLastMessageText   = "lastMessageText"
	fieldLastMessageAt     = "lastMessageAt"
	fieldLastMessageSender = "lastMessageSender"
	fieldLastActivityAt    = "lastActivityAt"

	fieldRoomID = "roomId"
	fieldText   = "text"
	fieldSender = "senderId"
	fieldSentAt = "sentAt"
)

const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldPrice       = "price"
	fieldAddress     = "address"
	fieldCity        = "city"
	fieldImage       = "image"
	fieldUserID      = "userId"
	fieldUserName    = "userName"
	fieldUserAvatar  = "userImage"
	fieldUserEmail   = "userEmail"
	fieldName        = "name"
	fieldIcon        = "icon"
)

func RoomFromDocument(doc store.Document) domain.Room {
	return domain.Room{
		ID:                doc.ID,
		Participants:      doc.Strings(fieldParticipants),
		ListingID:         doc.String(fieldListingID),
		CreatedAt:         doc.Time(fieldCreatedAt),
		LastMessageText:   doc.String(fieldLastMessageText),
		LastMessageAt:     doc.Time(fieldLastMessageAt),
		LastMessageSender: doc.String(fieldLastMessageSender),
	}
}

func MessageFromDocument(roomID string, doc store.Document) domain.Message {
	return domain.Message{
		ID:     doc.ID,
		RoomID: roomID,
		Sender: doc.String(fieldSender),
		Text:   doc.String(fieldText),
		SentAt: doc.Time(fieldSentAt),
	}
}

func ListingFromDocument(doc store.Document) domain.Listing {
	return domain.Listing{
		ID:          doc.ID,
		Title:       doc.String(fieldTitle),
		Description: doc.String(fieldDescription),
		Category:    doc.String(fieldCategory),
		Price:       doc.String(fieldPrice),
		Address:     doc.String(fieldAddress),
		City:        doc.String(fieldCity),
		Image:       doc.String(fieldImage),
		PostedBy: domain.Identity{
			ID:           doc.String(fieldUserID),
			DisplayName:  doc.String(fieldUserName),
			AvatarURL:    doc.String(fieldUserAvatar),
			ContactEmail: doc.String(fieldUserEmail),
		},
		CreatedAt: doc.Time(fieldCreatedAt),
	}
}

func CategoryFromDocument(doc store.Document) domain.Category {
	return domain.Category{
		Name: doc.String(fieldName),
		Icon: doc.String(fieldIcon),
	}
}

func SliderFromDocument(doc store.Document) domain.Slider {
	return domain.Slider{
		Name:  doc.String(fieldName),
		Image: doc.String(fieldImage),
	}
}
