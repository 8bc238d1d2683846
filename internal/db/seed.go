package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates 12 users with hashed passwords.
//  3. Creates a small card catalog and spreads ownerships/wishlists so the
//     candidate ranker has overlap in both directions.
//  4. Records some swipes, guaranteeing a few mutual likes with their
//     matches and one seeded conversation.
//
// Compatible with MySQL and SQLite (sequence reset differs per dialect).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	tables := []string{"messages", "matches", "swipes", "wishlist_entries", "user_cards", "cards", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range tables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, table := range tables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}

	log.Println("Cleared existing data")

	// --- Users ---
	cities := []string{"Madrid", "Barcelona", "Valencia", "Sevilla"}
	for i := 1; i <= 12; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := User{
			Username:     fmt.Sprintf("trainer%d", i),
			Email:        fmt.Sprintf("trainer%d@example.com", i),
			PasswordHash: string(hash),
			City:         cities[i%len(cities)],
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 12 users.")

	// --- Card catalog ---
	names := []string{"Charizard", "Pikachu", "Blastoise", "Venusaur", "Gengar", "Mewtwo", "Snorlax", "Eevee"}
	rarities := []string{"common", "rare", "holo"}
	var cardIDs []uint64
	for i, name := range names {
		card := Card{Name: name, SetName: "Base Set", Rarity: rarities[i%len(rarities)]}
		if err := db.Create(&card).Error; err != nil {
			return fmt.Errorf("failed to seed card: %w", err)
		}
		cardIDs = append(cardIDs, card.ID)
	}

	// --- Ownerships and wishlists ---
	for userID := uint64(1); userID <= 12; userID++ {
		owned := map[uint64]bool{}
		for j := 0; j < 3; j++ {
			cardID := cardIDs[r.Intn(len(cardIDs))]
			owned[cardID] = true
			uc := UserCard{
				UserID:     userID,
				CardID:     cardID,
				IsForTrade: r.Intn(100) < 80,
			}
			if err := db.Create(&uc).Error; err != nil {
				return fmt.Errorf("failed to seed user card: %w", err)
			}
		}
		wished := 0
		for j := 0; wished < 2 && j < 10; j++ {
			cardID := cardIDs[r.Intn(len(cardIDs))]
			if owned[cardID] {
				continue
			}
			entry := WishlistEntry{UserID: userID, CardID: cardID, Priority: 1 + r.Intn(5)}
			if err := db.Create(&entry).Error; err != nil {
				// duplicate wish from the random draw, try another card
				continue
			}
			wished++
		}
	}
	log.Println("Seeded ownerships and wishlists.")

	// --- Swipes, with guaranteed mutual likes ---
	mutualPairs := [][2]uint64{{1, 2}, {3, 4}, {5, 6}}
	for _, pair := range mutualPairs {
		a, b := pair[0], pair[1]
		db.Create(&Swipe{FromUserID: a, ToUserID: b, Type: SwipeLike})
		db.Create(&Swipe{FromUserID: b, ToUserID: a, Type: SwipeLike})
		db.Create(&Match{User1ID: a, User2ID: b})
	}
	for i := 0; i < 20; i++ {
		from := uint64(r.Intn(12) + 1)
		to := uint64(r.Intn(12) + 1)
		if from == to {
			continue
		}
		swipeType := SwipeLike
		if r.Intn(100) < 30 {
			swipeType = SwipeDislike
		}
		// unique index rejects repeats from the random draw; that's fine
		db.Create(&Swipe{FromUserID: from, ToUserID: to, Type: swipeType})
	}

	// --- A conversation on the first match ---
	var match Match
	if err := db.First(&match).Error; err == nil {
		db.Create(&Message{MatchID: match.ID, FromUserID: match.User1ID, ToUserID: match.User2ID, Text: "Hey! Still have that Charizard?"})
		db.Create(&Message{MatchID: match.ID, FromUserID: match.User2ID, ToUserID: match.User1ID, Text: "Yes, looking for a holo Gengar."})
	}

	log.Println("Seeded swipes, matches and messages.")
	return nil
}
