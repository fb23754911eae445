package memory

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"essence/storefront/internal/domain"
)

// SeedProducts returns the demo perfume catalog. The postgres migrate command
// loads the same rows.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "prd-001", Name: "Citrus Dawn", Brand: "Maison Lumiere", Category: domain.CategoryUnisex,
			PriceCents: 6500, OriginalPriceCents: 7800, Size: "100ml", Stock: 40, Rating: 4.4, Reviews: 210,
			Description: "A bright morning splash of sparkling citrus over clean musk.",
			Notes:       domain.ScentNotes{Top: []string{"Bergamot", "Lemon", "Grapefruit"}, Middle: []string{"Neroli", "Green Tea"}, Base: []string{"White Musk", "Cedar"}},
		},
		{
			ID: "prd-002", Name: "Velvet Rose", Brand: "Atelier Noir", Category: domain.CategoryWomen,
			PriceCents: 12500, Size: "50ml", Stock: 25, Rating: 4.8, Reviews: 512,
			Description: "Dewy Damask rose wrapped in soft vanilla.",
			Notes:       domain.ScentNotes{Top: []string{"Pink Pepper", "Lychee"}, Middle: []string{"Damask Rose", "Peony"}, Base: []string{"Vanilla", "Musk"}},
		},
		{
			ID: "prd-003", Name: "Midnight Oud", Brand: "Atelier Noir", Category: domain.CategoryMen,
			PriceCents: 18900, OriginalPriceCents: 21000, Size: "100ml", Stock: 12, Rating: 4.9, Reviews: 340,
			Description: "Smoky oud and saffron for late evenings.",
			Notes:       domain.ScentNotes{Top: []string{"Saffron", "Cardamom"}, Middle: []string{"Leather", "Rose"}, Base: []string{"Oud", "Amber", "Patchouli"}},
		},
		{
			ID: "prd-004", Name: "Ocean Breeze", Brand: "Azure", Category: domain.CategoryMen,
			PriceCents: 5500, Size: "100ml", Stock: 60, Rating: 4.1, Reviews: 150,
			Description: "Salt air and aromatic herbs from the coast.",
			Notes:       domain.ScentNotes{Top: []string{"Sea Salt", "Mandarin"}, Middle: []string{"Lavender", "Rosemary"}, Base: []string{"Driftwood", "Ambergris"}},
		},
		{
			ID: "prd-005", Name: "Jasmine Nights", Brand: "Belle Fleur", Category: domain.CategoryWomen,
			PriceCents: 9800, Size: "75ml", Stock: 30, Rating: 4.6, Reviews: 289,
			Description: "Heady night-blooming jasmine over creamy sandalwood.",
			Notes:       domain.ScentNotes{Top: []string{"Pear", "Blackcurrant"}, Middle: []string{"Jasmine", "Tuberose"}, Base: []string{"Sandalwood", "Vanilla"}},
		},
		{
			ID: "prd-006", Name: "Cedar & Smoke", Brand: "Northwood", Category: domain.CategoryMen,
			PriceCents: 14200, Size: "100ml", Stock: 18, Rating: 4.5, Reviews: 176,
			Description: "Dry cedar and vetiver drifting through tobacco smoke.",
			Notes:       domain.ScentNotes{Top: []string{"Black Pepper", "Juniper"}, Middle: []string{"Cedarwood", "Vetiver"}, Base: []string{"Tobacco", "Birch Tar"}},
		},
		{
			ID: "prd-007", Name: "Amber Glow", Brand: "Maison Lumiere", Category: domain.CategoryUnisex,
			PriceCents: 11000, Size: "50ml", Stock: 22, Rating: 4.7, Reviews: 198,
			Description: "Resinous amber warmed with cinnamon and tonka.",
			Notes:       domain.ScentNotes{Top: []string{"Cinnamon", "Pink Pepper"}, Middle: []string{"Labdanum", "Benzoin"}, Base: []string{"Amber", "Tonka Bean", "Vanilla"}},
		},
		{
			ID: "prd-008", Name: "Green Garden", Brand: "Belle Fleur", Category: domain.CategoryWomen,
			PriceCents: 4200, Size: "50ml", Stock: 80, Rating: 3.9, Reviews: 95,
			Description: "Crushed leaves and lily of the valley after rain.",
			Notes:       domain.ScentNotes{Top: []string{"Lime", "Green Leaves"}, Middle: []string{"Lily of the Valley", "Cucumber"}, Base: []string{"White Musk"}},
		},
		{
			ID: "prd-009", Name: "Silver Mist", Brand: "Azure", Category: domain.CategoryUnisex,
			PriceCents: 7200, Size: "100ml", Stock: 45, Rating: 4.2, Reviews: 130,
			Description: "Cool mint and iris with a clean vetiver trail.",
			Notes:       domain.ScentNotes{Top: []string{"Lemon", "Mint"}, Middle: []string{"Iris", "Violet"}, Base: []string{"Vetiver", "Musk"}},
		},
		{
			ID: "prd-010", Name: "Royal Iris", Brand: "Atelier Noir", Category: domain.CategoryWomen,
			PriceCents: 16500, Size: "75ml", Stock: 10, Rating: 4.6, Reviews: 88,
			Description: "Powdery orris butter with a sandalwood base.",
			Notes:       domain.ScentNotes{Top: []string{"Mandarin", "Aldehydes"}, Middle: []string{"Iris", "Orris Root"}, Base: []string{"Sandalwood", "Amber"}},
		},
		{
			ID: "prd-011", Name: "Spiced Leather", Brand: "Northwood", Category: domain.CategoryMen,
			PriceCents: 8900, Size: "100ml", Stock: 20, Rating: 4.3, Reviews: 142,
			Description: "Supple leather and warm spice with a sweet oud finish.",
			Notes:       domain.ScentNotes{Top: []string{"Cardamom", "Nutmeg"}, Middle: []string{"Leather", "Saffron"}, Base: []string{"Vanilla", "Oud"}},
		},
		{
			ID: "prd-012", Name: "Sunlit Neroli", Brand: "Maison Lumiere", Category: domain.CategoryUnisex,
			PriceCents: 9500, Size: "100ml", Stock: 35, Rating: 4.0, Reviews: 77,
			Description: "Mediterranean orange grove at noon.",
			Notes:       domain.ScentNotes{Top: []string{"Neroli", "Bitter Orange", "Bergamot"}, Middle: []string{"Orange Blossom", "Petitgrain"}, Base: []string{"Musk", "Amber"}},
		},
	}
}

func seedCustomers(now time.Time) []domain.Customer {
	return []domain.Customer{
		{ID: "cus-001", Name: "Ava Collins", Email: "ava@example.com", Phone: "+1-555-0101", CreatedAt: now},
		{ID: "cus-002", Name: "Noah Patel", Email: "noah@example.com", Phone: "+1-555-0102", CreatedAt: now},
	}
}

// seedUsers builds the initial in-memory accounts for dev/demo mode.
// Passwords come from SEED_ADMIN_PASSWORD and SEED_CUSTOMER_PASSWORD, falling
// back to dev defaults with a warning.
func seedUsers(now time.Time) map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	customerPwd := envOr("SEED_CUSTOMER_PASSWORD", "customer123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CUSTOMER_PASSWORD") == "" {
		log.Warn("memory store: using default dev credentials, set SEED_ADMIN_PASSWORD and SEED_CUSTOMER_PASSWORD to override")
	}

	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username   string
		password   string
		role       string
		customerID string
	}{
		{"admin", adminPwd, domain.RoleAdmin, ""},
		{"ava", customerPwd, domain.RoleCustomer, "cus-001"},
		{"noah", customerPwd, domain.RoleCustomer, "cus-002"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
		if err != nil {
			log.Fatalf("memory store: failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:   u.username,
			Password:   string(hash),
			Role:       u.role,
			CustomerID: u.customerID,
			Active:     true,
			CreatedAt:  now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
