package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fwrp/backend/internal/config"
	"github.com/fwrp/backend/internal/handlers"
	appMiddleware "github.com/fwrp/backend/internal/middleware"
	"github.com/fwrp/backend/internal/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Identity service: Firebase in production, HMAC tokens for local
	// development. Routes that verify credentials cannot run without one.
	var identity services.IdentityService
	switch {
	case cfg.FirebaseProjectID != "":
		authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth client: %v", err)
		}
		identity = services.NewFirebaseIdentityService(authClient)
	case cfg.JWTSecret != "":
		identity = services.NewJWTIdentityService(cfg.JWTSecret)
	default:
		log.Fatalf("Identity service not configured: set FIREBASE_PROJECT_ID or JWT_SECRET")
	}

	// Document store: Mongo when configured, JSON-file-backed otherwise.
	var donations services.DonationStore
	var users services.UserDirectory
	if cfg.MongoURI != "" {
		donationStore, err := services.NewMongoDonationStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to connect donation store: %v", err)
		}
		userDirectory, err := services.NewMongoUserDirectory(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("Failed to connect user directory: %v", err)
		}
		donations, users = donationStore, userDirectory
	} else {
		donationStore, err := services.NewMemoryDonationStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open donation store: %v", err)
		}
		userDirectory, err := services.NewMemoryUserDirectory(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open user directory: %v", err)
		}
		donations, users = donationStore, userDirectory
	}

	// Media store, first match wins: Cloudinary, Firebase Storage, local disk.
	var media services.MediaStore
	switch {
	case cfg.CloudinaryURL != "":
		cloudinaryStore, err := services.NewCloudinaryMediaStore(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("Failed to initialize Cloudinary: %v", err)
		}
		media = cloudinaryStore
	case cfg.MediaBucket != "":
		bucketStore, err := services.NewFirebaseMediaStore(ctx, cfg.MediaBucket)
		if err != nil {
			log.Fatalf("Failed to initialize media bucket: %v", err)
		}
		media = bucketStore
	default:
		media = services.NewImageService(cfg.UploadDir)
	}

	donationHandler := handlers.NewDonationHandler(donations, users, media, cfg.MaxUploadSizeMB)
	userHandler := handlers.NewUserHandler(users, identity, media, cfg.MaxUploadSizeMB)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/donated-food", func(r chi.Router) {
		r.Post("/", donationHandler.CreateDonation)
		r.Get("/", donationHandler.ListDonations)
		r.Delete("/", donationHandler.DeleteDonationByQuery)

		r.Route("/{donationId}", func(r chi.Router) {
			r.Get("/", donationHandler.GetDonation)
			r.Patch("/", donationHandler.UpdateDonation)
			r.Delete("/", donationHandler.DeleteDonation)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Patch("/", userHandler.UpdateUser)
		r.Delete("/", userHandler.DeleteUser)
		r.Get("/{userId}", userHandler.GetUserInfo)

		// Profile creation and avatar upload run as the verified caller.
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(identity))
			r.Post("/", userHandler.CreateUser)
			r.Post("/{userId}/avatar", userHandler.UploadAvatar)
		})
	})

	// Serve uploaded files when the local-disk media store is in use.
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	log.Printf("FWRP API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
