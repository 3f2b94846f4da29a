package tools

import (
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/ilovegorakhpur/portal/internal/portal"
)

// Result caps per spec: services return the top rated few, products a short
// shortlist. Events are not truncated.
const (
	maxServices = 3
	maxProducts = 5
)

// EventSummary is the presentation-safe subset of an event record returned
// to the provider.
type EventSummary struct {
	Title    string  `json:"title"`
	Date     string  `json:"date"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// ServiceSummary is the presentation-safe subset of a service listing.
type ServiceSummary struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Phone    string  `json:"phone"`
	Rating   float64 `json:"rating"`
}

// ProductSummary is the presentation-safe subset of a product record.
type ProductSummary struct {
	Name     string  `json:"name"`
	Seller   string  `json:"seller"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Resolve executes a validated invocation against the dataset snapshot and
// packages the matches as a function response for the provider. It is pure
// in-memory filtering: no I/O, no suspension, and an empty match set is a
// successful result.
func Resolve(inv Invocation, snap portal.Snapshot, now time.Time) *genai.FunctionResponse {
	var payload any
	switch {
	case inv.Events != nil:
		payload = findEvents(*inv.Events, snap.Events, now)
	case inv.Services != nil:
		payload = findServices(*inv.Services, snap.Services)
	case inv.Products != nil:
		payload = findProducts(*inv.Products, snap.Products)
	default:
		payload = []any{}
	}

	return &genai.FunctionResponse{
		ID:       inv.ID,
		Name:     inv.Name,
		Response: map[string]any{"results": payload},
	}
}

func findEvents(args EventsArgs, events []portal.Event, now time.Time) []EventSummary {
	interest := strings.ToLower(strings.TrimSpace(args.Interest))
	start, end, hasRange := dateInterval(now, args.DateRange)

	matches := make([]portal.Event, 0, len(events))
	for _, e := range events {
		if interest != "" && !strings.Contains(strings.ToLower(e.Category), interest) {
			continue
		}
		// Half-open interval [start, end).
		if hasRange && (e.Date.Before(start) || !e.Date.Before(end)) {
			continue
		}
		matches = append(matches, e)
	}

	slices.SortStableFunc(matches, func(a, b portal.Event) int {
		return a.Date.Compare(b.Date)
	})

	out := make([]EventSummary, 0, len(matches))
	for _, e := range matches {
		out = append(out, EventSummary{
			Title:    e.Title,
			Date:     e.Date.Format("Mon, 02 Jan 2006 15:04"),
			Location: e.Location,
			Price:    e.Price,
			Category: e.Category,
		})
	}
	return out
}

func findServices(args ServicesArgs, services []portal.ServiceListing) []ServiceSummary {
	query := normalizeServiceType(args.ServiceType)

	matches := make([]portal.ServiceListing, 0, len(services))
	for _, sv := range services {
		if !sv.IsVerified {
			continue
		}
		if !strings.Contains(strings.ToLower(sv.Category), query) {
			continue
		}
		matches = append(matches, sv)
	}

	slices.SortStableFunc(matches, func(a, b portal.ServiceListing) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		default:
			return 0
		}
	})

	if len(matches) > maxServices {
		matches = matches[:maxServices]
	}

	out := make([]ServiceSummary, 0, len(matches))
	for _, sv := range matches {
		out = append(out, ServiceSummary{
			Name:     sv.Name,
			Category: sv.Category,
			Phone:    sv.Phone,
			Rating:   sv.Rating,
		})
	}
	return out
}

func findProducts(args ProductsArgs, products []portal.Product) []ProductSummary {
	query := strings.ToLower(strings.TrimSpace(args.ProductType))

	out := make([]ProductSummary, 0, maxProducts)
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Category), query) &&
			!strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, ProductSummary{
			Name:     p.Name,
			Seller:   p.Seller,
			Price:    p.Price,
			Category: p.Category,
		})
		if len(out) == maxProducts {
			break
		}
	}
	return out
}

// normalizeServiceType lowercases the query and strips a simple trailing
// plural so "tutors" matches the "Tutor" category.
func normalizeServiceType(s string) string {
	q := strings.ToLower(strings.TrimSpace(s))
	if len(q) > 1 && strings.HasSuffix(q, "s") {
		q = strings.TrimSuffix(q, "s")
	}
	return q
}

// dateInterval maps a date-range keyword to a half-open [start, end)
// interval relative to now. Unrecognized keywords yield no interval, which
// callers treat as a no-op filter.
func dateInterval(now time.Time, keyword string) (start, end time.Time, ok bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := 24 * time.Hour

	switch strings.ToLower(strings.TrimSpace(keyword)) {
	case "today":
		return today, today.Add(day), true
	case "tomorrow":
		return today.Add(day), today.Add(2 * day), true
	case "this week":
		return today, nextMonday(today), true
	case "this weekend":
		saturday := today
		for saturday.Weekday() != time.Saturday && saturday.Weekday() != time.Sunday {
			saturday = saturday.Add(day)
		}
		return saturday, nextMonday(today), true
	case "this month":
		firstOfNext := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
		return today, firstOfNext, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func nextMonday(today time.Time) time.Time {
	d := today.Add(24 * time.Hour)
	for d.Weekday() != time.Monday {
		d = d.Add(24 * time.Hour)
	}
	return d
}
