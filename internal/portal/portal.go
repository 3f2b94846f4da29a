// Package portal holds the community portal's datasets: local events,
// verified service listings, marketplace products and bulletin posts.
//
// The Store is the single owner of the mutable collections. The assistant
// core never touches the Store directly; it receives an immutable Snapshot
// taken at the start of each turn and only ever reads it.
package portal

import (
	"time"
)

// Event is a local event listing.
type Event struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
	Category string    `json:"category"`
}

// ServiceListing is an entry in the local services directory.
type ServiceListing struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Phone      string  `json:"phone"`
	Rating     float64 `json:"rating"`
	IsVerified bool    `json:"isVerified"`
}

// Product is a marketplace listing.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Seller   string  `json:"seller"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Post is a community bulletin board entry.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Location is an optional geographic position supplied per assistant turn.
// Its presence changes the conversation session fingerprint.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Snapshot is the read-only view of the datasets handed to the assistant
// for the duration of one turn. The slices must not be mutated.
type Snapshot struct {
	Events   []Event
	Services []ServiceListing
	Products []Product
}
