package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"clinic-directory/internal/config"
	"clinic-directory/internal/models"
	"clinic-directory/internal/repository"
	"clinic-directory/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "", "Path to the clinic list to import (name | address | city | phone | website | kind, one per line)")
	defaultKind := flag.String("kind", models.KindAuthorized, "Kind assigned to lines without one")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	godotenv.Load()
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	repo := repository.New(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Printf("Error creating schema: %v\n", err)
		os.Exit(1)
	}

	geocoder := service.NewGeocoder(repo, service.GeocoderConfig{
		BaseURL:       cfg.GeocoderBaseURL,
		UserAgent:     cfg.GeocoderUserAgent,
		CountryCode:   cfg.GeocoderCountryCode,
		CountryName:   cfg.GeocoderCountryName,
		CountryNameEN: cfg.GeocoderCountryNameEN,
		Timeout:       cfg.GeocoderTimeout,
	})

	created, updated, skipped, err := service.NewDirectoryService(repo, geocoder).
		BulkImport(ctx, string(raw), *defaultKind)
	if err != nil {
		fmt.Printf("Error importing clinics: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import finished: %d created, %d updated, %d skipped\n", created, updated, skipped)
}
