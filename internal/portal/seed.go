package portal

import "time"

// Seed loads the portal's starter datasets. It is called once at startup;
// user-submitted listings are appended on top of these.
func (s *Store) Seed(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := 24 * time.Hour
	s.events = []Event{
		{ID: 1, Title: "Gorakhpur Mahotsav", Date: now.Add(2 * day), Location: "Champa Devi Park", Price: 0, Category: "Culture"},
		{ID: 2, Title: "Terracotta Craft Workshop", Date: now.Add(5 * day), Location: "Aurangabad Village", Price: 250, Category: "Handicrafts"},
		{ID: 3, Title: "Morning Yoga by the Ramgarh Tal", Date: now.Add(1 * day), Location: "Ramgarh Tal Lakefront", Price: 50, Category: "Health"},
		{ID: 4, Title: "Gorakhpur Book Fair", Date: now.Add(12 * day), Location: "Town Hall Ground", Price: 20, Category: "Education"},
		{ID: 5, Title: "Street Food Festival", Date: now.Add(8 * day), Location: "Golghar Market", Price: 100, Category: "Food"},
		{ID: 6, Title: "Cricket Coaching Camp", Date: now.Add(15 * day), Location: "Regional Sports Stadium", Price: 500, Category: "Sports"},
	}
	s.nextEventID = 7

	s.services = []ServiceListing{
		{ID: 1, Name: "Sharma Maths Tutors", Category: "Tutor", Phone: "+91-98765-11111", Rating: 4.9, IsVerified: true},
		{ID: 2, Name: "Gupta Home Tuitions", Category: "Tutor", Phone: "+91-98765-22222", Rating: 4.6, IsVerified: true},
		{ID: 3, Name: "City English Academy", Category: "Tutor", Phone: "+91-98765-33333", Rating: 4.5, IsVerified: true},
		{ID: 4, Name: "Quick Study Circle", Category: "Tutor", Phone: "+91-98765-44444", Rating: 4.8, IsVerified: false},
		{ID: 5, Name: "Verma Plumbing Works", Category: "Plumber", Phone: "+91-98765-55555", Rating: 4.7, IsVerified: true},
		{ID: 6, Name: "Bright Spark Electricians", Category: "Electrician", Phone: "+91-98765-66666", Rating: 4.4, IsVerified: true},
		{ID: 7, Name: "Lakshmi Catering Services", Category: "Caterer", Phone: "+91-98765-77777", Rating: 4.2, IsVerified: true},
	}

	s.products = []Product{
		{ID: 1, Name: "Terracotta Horse", Seller: "Aurangabad Artisans", Price: 850, Category: "Handicrafts"},
		{ID: 2, Name: "Pure Forest Honey", Seller: "Kushinagar Apiary", Price: 420, Category: "Food"},
		{ID: 3, Name: "Handloom Cotton Saree", Seller: "Bunkar Collective", Price: 1650, Category: "Clothing"},
		{ID: 4, Name: "Brass Diya Set", Seller: "Golghar Metalworks", Price: 399, Category: "Home Decor"},
		{ID: 5, Name: "Organic Kala Namak Rice", Seller: "Siddharthnagar Farms", Price: 310, Category: "Food"},
		{ID: 6, Name: "Terracotta Elephant Pair", Seller: "Aurangabad Artisans", Price: 1200, Category: "Handicrafts"},
	}
	s.nextProductID = 7

	s.posts = []Post{
		{ID: "seed-1", Author: "Ravi", Content: "Blood donation camp at the District Hospital this Sunday, volunteers welcome.", CreatedAt: now.Add(-6 * time.Hour)},
		{ID: "seed-2", Author: "Meena", Content: "Lost a brown labrador near Basharatpur. Please call if spotted.", CreatedAt: now.Add(-2 * day)},
	}

	s.logger.Info("seeded portal datasets",
		"events", len(s.events),
		"services", len(s.services),
		"products", len(s.products),
		"posts", len(s.posts))
}
