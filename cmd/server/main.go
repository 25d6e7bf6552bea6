package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/portfolio-backend/internal/config"
	"github.com/AnshRaj112/portfolio-backend/internal/database"
	"github.com/AnshRaj112/portfolio-backend/internal/handlers"
	"github.com/AnshRaj112/portfolio-backend/internal/models"
	"github.com/AnshRaj112/portfolio-backend/internal/routes"
	"github.com/AnshRaj112/portfolio-backend/internal/services"
	"github.com/AnshRaj112/portfolio-backend/pkg/clientip"
	"github.com/AnshRaj112/portfolio-backend/pkg/utils"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.AdminToken == "" {
		log.Println("⚠️  WARNING: ADMIN_TOKEN not set. Every /api/admin request will be rejected.")
	}

	kv, closeKV := connectBackend(cfg)
	defer closeKV()

	var locator services.Locator
	if cfg.GeoIPDBPath != "" {
		geo, err := services.NewGeoIPLocator(cfg.GeoIPDBPath)
		if err != nil {
			log.Printf("⚠️  WARNING: geolocation disabled: %v", err)
		} else {
			defer geo.Close()
			locator = geo
			log.Println("✅ GeoIP database loaded")
		}
	}

	if cfg.IPHashKey == "" {
		log.Println("IP_HASH_KEY not set, visitor IPs will be masked")
	}

	var archiver services.Archiver
	if cfg.ArchiveEnabled() {
		a, err := services.NewCloudinaryArchiver(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "portfolio/visitor-archives")
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
		} else {
			archiver = a
			log.Println("✅ Cloudinary archiving enabled")
		}
	} else {
		log.Println("Cloudinary credentials not found. Visitor history is purged without an archive")
	}

	visitors := services.NewVisitorStore(kv)
	clicks := services.NewEventLog[models.ClickEvent](kv, services.ClickEventsKey)
	feed := services.NewLiveFeed()
	tracker := services.NewTracker(visitors, clicks, services.TrackerOptions{
		QueueSize:  cfg.TrackQueueSize,
		Workers:    cfg.TrackWorkers,
		Locator:    locator,
		Anonymizer: utils.NewIPAnonymizer(cfg.IPHashKey),
		Feed:       feed,
	})

	resolveIP := clientip.Resolver(cfg.TrustProxy)
	r := routes.NewRouter(routes.Dependencies{
		Admin:          handlers.NewAdminHandler(visitors, clicks, archiver, cfg.AdminToken),
		Tracking:       handlers.NewTrackingHandler(tracker, resolveIP),
		Live:           handlers.NewLiveHandler(feed, cfg.AdminToken),
		Health:         handlers.Health(kv, cfg.Backend()),
		AdminToken:     cfg.AdminToken,
		AllowedOrigins: cfg.AllowedOrigins,
		ClientIP:       resolveIP,
		Production:     cfg.IsProduction(),
	})

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  GET  /metrics")
	log.Println("  POST /api/track/visit")
	log.Println("  POST /api/track/click")
	log.Println("  GET  /api/admin/visitors")
	log.Println("  POST /api/admin/delete-visitors")
	log.Println("  GET  /api/admin/check-deletion")
	log.Println("  GET  /api/admin/click-events")
	log.Println("  POST /api/admin/delete-click-events")
	log.Println("  GET  /ws/admin/visitors")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Portfolio backend running on :%s (%s backend)", cfg.Port, cfg.Backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	tracker.Close()
	log.Println("Tracking queue drained")
}

// connectBackend opens the configured key-value backend and returns it with
// its cleanup func.
func connectBackend(cfg *config.Config) (database.KV, func()) {
	switch cfg.Backend() {
	case config.BackendRedis:
		log.Printf("Connecting to Redis at %s...", maskURI(cfg.RedisURI))
		client, err := database.ConnectRedis(cfg.RedisURI)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		kv := database.NewRedisKV(client)
		return kv, func() { kv.Close() }

	case config.BackendMongo:
		log.Printf("Connecting to MongoDB at %s...", maskURI(cfg.MongoURI))
		client, db, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.Println("Troubleshooting tips:")
			log.Println("1. Check if your IP is whitelisted in MongoDB Atlas")
			log.Println("2. Verify your connection string format (should use mongodb+srv:// for Atlas)")
			log.Println("3. Check if the cluster is running (not paused)")
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		return database.NewMongoKV(db), func() { database.DisconnectMongo(client) }

	case config.BackendPostgres:
		log.Printf("Connecting to PostgreSQL at %s...", maskURI(cfg.PostgresURI))
		db, err := database.ConnectPostgres(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL:", err)
		}
		kv := database.NewPostgresKV(db)
		return kv, func() { kv.Close() }

	default:
		log.Println("⚠️  WARNING: no backend configured, using in-memory store. Data is lost on restart.")
		return database.NewMemoryKV(), func() {}
	}
}

// maskURI hides the password in a connection string before it is logged.
func maskURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable URI>"
	}
	return u.Redacted()
}
