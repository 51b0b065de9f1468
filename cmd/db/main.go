package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pinrex-validate/internal/store"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file with State and Pin columns (required)")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --csv flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./pincodes.db"
	}

	log.Printf("Setting up database at: %s\n", dbPath)

	db, err := store.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Println("Recreating tables...")
	if err := store.ResetSchema(db); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open csv: %v", err)
	}
	defer f.Close()

	log.Printf("Seeding postal codes from %s...", *csvPath)
	inserted, err := store.SeedFromCSV(db, f)
	if err != nil {
		log.Fatalf("Failed to seed postal codes: %v", err)
	}

	states, err := store.States(db)
	if err != nil {
		log.Fatalf("Failed to list states: %v", err)
	}

	log.Println("Database setup completed successfully!")
	fmt.Printf("\n%d postal code rows across %d states\n", inserted, len(states))
}
