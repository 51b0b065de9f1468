package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime"

	"github.com/go-chi/chi/v5"

	"pinrex-validate/internal/api"
	"pinrex-validate/internal/store"
	"pinrex-validate/internal/sweep"
)

func main() {
	postalCodesFile := flag.String("postal-codes", "static/input.json", "Path to the postal codes document (ignored when DB_PATH is set)")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of partitions swept in parallel per request")
	flag.Parse()

	codes, err := loadPostalCodes(*postalCodesFile)
	if err != nil {
		log.Fatalf("Failed to load postal codes: %s", sweep.Describe(err))
	}
	log.Printf("Loaded %d postal codes", len(codes))

	server := api.NewServer(codes, *workers)

	mux := chi.NewMux()
	h := api.HandlerFromMux(server, mux)

	addr := getAddr()
	s := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	fmt.Printf("Starting server on %s\n", addr)
	if err := s.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadPostalCodes reads the ground-truth set from SQLite when DB_PATH is
// set, otherwise from the JSON or YAML document at path.
func loadPostalCodes(path string) ([]int, error) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		return sweep.LoadPostalCodes(path)
	}

	log.Printf("Connecting to database: %s", dbPath)
	db, err := store.InitDB(dbPath)
	if err != nil {
		return nil, &sweep.LoadError{Source: "postal codes from " + dbPath, Err: err}
	}
	defer db.Close()

	codes, err := store.LoadPostalCodes(db)
	if err != nil {
		return nil, &sweep.LoadError{Source: "postal codes from " + dbPath, Err: err}
	}
	return codes, nil
}

func getAddr() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
