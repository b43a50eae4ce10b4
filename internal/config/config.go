package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	DataDir         string
	UploadDir       string
	MaxUploadSizeMB int64

	// Document store. When MongoURI is empty the JSON-file-backed in-memory
	// store is used instead.
	MongoURI      string
	MongoDatabase string

	// Identity service. Firebase when the project id is set; otherwise the
	// HMAC token verifier with JWTSecret.
	FirebaseProjectID       string
	FirebaseCredentialsJSON string
	JWTSecret               string

	// Media store, first match wins: Cloudinary, Firebase Storage bucket,
	// local disk under UploadDir.
	CloudinaryURL string
	MediaBucket   string
}

func Load() *Config {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	return &Config{
		ServerAddress:           getEnv("SERVER_ADDRESS", ":8080"),
		DataDir:                 getEnv("DATA_DIR", "./data"),
		UploadDir:               getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB:         getEnvInt64("MAX_UPLOAD_SIZE_MB", 10),
		MongoURI:                getEnv("MONGODB_URI", ""),
		MongoDatabase:           getEnv("MONGODB_DATABASE", "fwrp"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		CloudinaryURL:           getEnv("CLOUDINARY_URL", ""),
		MediaBucket:             getEnv("MEDIA_BUCKET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
