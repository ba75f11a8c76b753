package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rscoates/magic-library/internal/config"
	"github.com/rscoates/magic-library/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// seedData is the YAML layout of a seed file. Reference tables are always
// seeded; sets and cards are optional catalog data for dev environments.
type seedData struct {
	Languages []struct {
		Code string `yaml:"code"`
		Name string `yaml:"name"`
	} `yaml:"languages"`
	Finishes       []string `yaml:"finishes"`
	ContainerTypes []string `yaml:"container_types"`
	Sets           []struct {
		Code        string `yaml:"code"`
		Name        string `yaml:"name"`
		ReleaseDate string `yaml:"release_date"`
	} `yaml:"sets"`
	Cards []struct {
		Set    string `yaml:"set"`
		Number string `yaml:"number"`
		Name   string `yaml:"name"`
		Rarity string `yaml:"rarity"`
	} `yaml:"cards"`
}

// defaultSeed covers the reference tables a fresh install needs. The "file"
// type is the one the binder layout keys on.
const defaultSeed = `
languages:
  - {code: en, name: English}
  - {code: ja, name: Japanese}
  - {code: de, name: German}
  - {code: fr, name: French}
  - {code: it, name: Italian}
  - {code: es, name: Spanish}
  - {code: pt, name: Portuguese}
  - {code: ru, name: Russian}
  - {code: ko, name: Korean}
  - {code: zhs, name: Chinese Simplified}
finishes:
  - Foil
  - Etched
container_types:
  - box
  - file
  - deck
  - shelf
  - case
`

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed reference data")
	seedFile := flag.String("file", "", "YAML seed file (defaults to built-in reference data)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: Cannot run --drop-tables in production environment")
	}

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	data, err := loadSeed(*seedFile)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	if err := seed(ctx, pool, tables, data); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Println("Seed complete")
}

func loadSeed(path string) (*seedData, error) {
	raw := []byte(defaultSeed)
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}

	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &data, nil
}

// seed inserts reference and catalog rows, skipping rows that already exist
func seed(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, data *seedData) error {
	for _, language := range data.Languages {
		_, err := pool.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (code, name) VALUES ($1, $2)
			ON CONFLICT (code) DO NOTHING
		`, tables.Languages), language.Code, language.Name)
		if err != nil {
			return fmt.Errorf("seed language %q: %w", language.Code, err)
		}
	}
	log.Printf("Seeded %d languages", len(data.Languages))

	for _, finish := range data.Finishes {
		_, err := pool.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, tables.Finishes), finish)
		if err != nil {
			return fmt.Errorf("seed finish %q: %w", finish, err)
		}
	}
	log.Printf("Seeded %d finishes", len(data.Finishes))

	for _, typeName := range data.ContainerTypes {
		_, err := pool.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, tables.ContainerTypes), typeName)
		if err != nil {
			return fmt.Errorf("seed container type %q: %w", typeName, err)
		}
	}
	log.Printf("Seeded %d container types", len(data.ContainerTypes))

	for _, set := range data.Sets {
		var releaseDate *time.Time
		if set.ReleaseDate != "" {
			parsed, err := time.Parse("2006-01-02", set.ReleaseDate)
			if err != nil {
				return fmt.Errorf("set %q release date: %w", set.Code, err)
			}
			releaseDate = &parsed
		}
		_, err := pool.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (code, name, release_date) VALUES ($1, $2, $3)
			ON CONFLICT (code) DO NOTHING
		`, tables.Sets), set.Code, set.Name, releaseDate)
		if err != nil {
			return fmt.Errorf("seed set %q: %w", set.Code, err)
		}
	}
	if len(data.Sets) > 0 {
		log.Printf("Seeded %d sets", len(data.Sets))
	}

	for _, card := range data.Cards {
		_, err := pool.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (set_code, number, name, rarity) VALUES ($1, $2, $3, $4)
			ON CONFLICT (set_code, number) DO NOTHING
		`, tables.Cards), card.Set, card.Number, card.Name, card.Rarity)
		if err != nil {
			return fmt.Errorf("seed card %s %s: %w", card.Set, card.Number, err)
		}
	}
	if len(data.Cards) > 0 {
		log.Printf("Seeded %d cards", len(data.Cards))
	}

	return nil
}
