package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/booknest/library-api/config"
)

// Seeds the category reference data and a handful of catalog entries so a
// fresh database has something to browse.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	categories := []string{
		"Fiction",
		"Non-fiction",
		"Science",
		"Technology",
		"History",
		"Children",
	}
	categoryIDs := make(map[string]int64, len(categories))
	for _, name := range categories {
		var id int64
		err := db.QueryRow(`
			INSERT INTO categories (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed category %q: %v", name, err)
		}
		categoryIDs[name] = id
	}
	fmt.Printf("seeded %d categories\n", len(categoryIDs))

	books := []struct {
		isbn     string
		title    string
		author   string
		edition  string
		year     int
		category string
	}{
		{"9780134190440", "The Go Programming Language", "Alan A. A. Donovan", "1st", 2015, "Technology"},
		{"9780132350884", "Clean Code", "Robert C. Martin", "1st", 2008, "Technology"},
		{"9780141439518", "Pride and Prejudice", "Jane Austen", "Penguin Classics", 2002, "Fiction"},
		{"9780553380163", "A Brief History of Time", "Stephen Hawking", "Updated", 1998, "Science"},
		{"9780062316097", "Sapiens", "Yuval Noah Harari", "1st", 2015, "History"},
	}
	for _, b := range books {
		if _, err := db.Exec(`
			INSERT INTO books (isbn, title, image_url, author, edition, year, available, category_id)
			VALUES ($1, $2, '', $3, $4, $5, true, $6)
			ON CONFLICT (isbn) DO NOTHING
		`, b.isbn, b.title, b.author, b.edition, b.year, categoryIDs[b.category]); err != nil {
			log.Fatalf("failed to seed book %s: %v", b.isbn, err)
		}
	}
	fmt.Printf("seeded %d books\n", len(books))
}
