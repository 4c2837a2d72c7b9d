package main

import (
	"context"
	"net/http"

	"clinic-directory/internal/archive"
	"clinic-directory/internal/config"
	"clinic-directory/internal/handler"
	"clinic-directory/internal/mailer"
	"clinic-directory/internal/repository"
	"clinic-directory/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	godotenv.Load()

	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.New(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	geocoder := service.NewGeocoder(repo, service.GeocoderConfig{
		BaseURL:       config.GeocoderBaseURL,
		UserAgent:     config.GeocoderUserAgent,
		CountryCode:   config.GeocoderCountryCode,
		CountryName:   config.GeocoderCountryName,
		CountryNameEN: config.GeocoderCountryNameEN,
		Timeout:       config.GeocoderTimeout,
	})

	// Reconcile the directory against the authoritative list before serving
	// any request. This blocks readiness, including the geocoding it may
	// trigger.
	clinics, err := service.LoadAuthoritativeList(config.ClinicsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load authoritative clinic list")
	}
	log.Info().Int("clinics", len(clinics)).Msg("reconciling directory")
	if err := service.NewSyncService(repo, geocoder).Sync(ctx, clinics); err != nil {
		log.Fatal().Err(err).Msg("directory reconciliation failed")
	}

	directoryService := service.NewDirectoryService(repo, geocoder)
	leadService := service.NewLeadService(
		repo,
		archive.NewDiskArchiver(config.LeadsDir),
		mailer.New(mailer.Config{
			Host:       config.SMTPHost,
			Port:       config.SMTPPort,
			User:       config.SMTPUser,
			Pass:       config.SMTPPass,
			From:       config.SMTPFrom,
			To:         config.MailTo,
			ArchiveDir: config.MailArchiveDir,
		}),
	)

	clinicsHandler := handler.NewClinicsHandler(directoryService)
	leadHandler := handler.NewLeadHandler(leadService)
	adminHandler := handler.NewAdminHandler(directoryService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/api/clinics", clinicsHandler.List)
	r.POST("/lead", leadHandler.Submit)

	admin := r.Group("/admin", gin.BasicAuth(gin.Accounts{config.AdminUser: config.AdminPass}))
	admin.GET("/clinics", adminHandler.List)
	admin.POST("/clinics", adminHandler.Create)
	admin.GET("/clinics/:id", adminHandler.Get)
	admin.PUT("/clinics/:id", adminHandler.Update)
	admin.DELETE("/clinics/:id", adminHandler.Delete)
	admin.POST("/clinics/:id/geocode", adminHandler.Geocode)
	admin.POST("/import", adminHandler.Import)

	r.Run(config.ServerAddress)
}
