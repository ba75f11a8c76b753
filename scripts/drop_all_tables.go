package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	if env == "prod" {
		log.Fatal("Refusing to drop prod tables; use the seed command against a dev or test environment")
	}
	prefix := env + "_"

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Children first so foreign keys do not block the drops
	tables := []string{
		"collection_entries",
		"containers",
		"container_types",
		"finishes",
		"languages",
		"sets",
		"cards",
	}

	for _, table := range tables {
		name := prefix + table
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			log.Fatalf("Failed to drop %s: %v", name, err)
		}
		fmt.Printf("Dropped %s\n", name)
	}

	fmt.Println("All tables dropped")
}
