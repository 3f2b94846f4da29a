package portal

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ilovegorakhpur/portal/internal/log"
)

var (
	// ErrEmptyTitle indicates an event was submitted without a title.
	ErrEmptyTitle = errors.New("event title is required")

	// ErrEmptyName indicates a product was submitted without a name.
	ErrEmptyName = errors.New("product name is required")

	// ErrEmptyContent indicates a bulletin post was submitted without content.
	ErrEmptyContent = errors.New("post content is required")

	// ErrNegativePrice indicates a negative price on an event or product.
	ErrNegativePrice = errors.New("price must not be negative")
)

// Store owns the portal's in-memory collections.
//
// Thread Safety: all methods are safe for concurrent use. Accessors return
// defensive copies so callers can iterate without holding any lock.
type Store struct {
	mu     sync.RWMutex
	logger log.Logger

	events   []Event
	services []ServiceListing
	products []Product
	posts    []Post

	nextEventID   int
	nextProductID int
}

// NewStore creates an empty store. Call Seed to load the portal's
// starter datasets.
func NewStore(logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{
		logger:        logger,
		nextEventID:   1,
		nextProductID: 1,
	}
}

// Events returns a copy of all event listings.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Services returns a copy of all service listings.
func (s *Store) Services() []ServiceListing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ServiceListing, len(s.services))
	copy(out, s.services)
	return out
}

// Products returns a copy of all marketplace products.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Posts returns a copy of all bulletin posts, newest first.
func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// AddEvent validates and appends an event listing, assigning its ID.
func (s *Store) AddEvent(e Event) (Event, error) {
	if strings.TrimSpace(e.Title) == "" {
		return Event{}, ErrEmptyTitle
	}
	if e.Price < 0 {
		return Event{}, ErrNegativePrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextEventID
	s.nextEventID++
	s.events = append(s.events, e)

	s.logger.Info("event added", "id", e.ID, "title", e.Title)
	return e, nil
}

// AddProduct validates and appends a marketplace product, assigning its ID.
func (s *Store) AddProduct(p Product) (Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, ErrEmptyName
	}
	if p.Price < 0 {
		return Product{}, ErrNegativePrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProductID
	s.nextProductID++
	s.products = append(s.products, p)

	s.logger.Info("product added", "id", p.ID, "name", p.Name)
	return p, nil
}

// AddPost validates and prepends a bulletin post, assigning its ID and
// creation time.
func (s *Store) AddPost(p Post) (Post, error) {
	if strings.TrimSpace(p.Content) == "" {
		return Post{}, ErrEmptyContent
	}
	if strings.TrimSpace(p.Author) == "" {
		p.Author = "Anonymous"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	s.posts = append([]Post{p}, s.posts...)

	s.logger.Info("post added", "id", p.ID, "author", p.Author)
	return p, nil
}

// Snapshot captures the current datasets as an immutable per-turn view for
// the assistant. Bulletin posts are deliberately excluded: the assistant's
// tools only cover events, services and products.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Events:   s.Events(),
		Services: s.Services(),
		Products: s.Products(),
	}
}
