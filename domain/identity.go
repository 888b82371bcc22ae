// Package domain contains core concepts of the marketplace and its chat.
// No runtime, network, or UI logic should be added here.
package domain

// Identity describes the signed-in actor as supplied by the external
// identity provider. This backend never stores credentials.
type Identity struct {
	ID           string
	DisplayName  string
	AvatarURL    string
	ContactEmail string
}
