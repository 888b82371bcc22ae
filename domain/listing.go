package domain

import "time"

// Listing is a donated item posted by a user.
type Listing struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       string
	Address     string
	City        string
	Image       string
	PostedBy    Identity
	CreatedAt   time.Time
}

type Category struct {
	Name string
	Icon string
}

// Slider is a promotional banner shown on the home screen.
type Slider struct {
	Name  string
	Image string
}
