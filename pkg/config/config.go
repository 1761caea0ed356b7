package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	CacheBackend            string
	IndexCacheTTL           time.Duration
	JWTSecret               string
	SessionCookie           string
	SessionTTL              time.Duration
	StorageBackend          string
	MediaRoot               string
	MediaURL                string
	S3Region                string
	S3Bucket                string
	GCSBucket               string
	GCSCredentialsFile      string
	FirebaseCredentialsPath string
	AdminToken              string
}

// Load reads configuration from the environment, after loading a .env file if one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", "host=localhost port=5432 user=postgres dbname=blogfeed sslmode=disable"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "blogfeed"),
		CacheBackend:            getEnv("CACHE_BACKEND", "memory"),
		IndexCacheTTL:           getEnvAsDuration("INDEX_CACHE_TTL", 15*time.Minute),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		SessionCookie:           getEnv("SESSION_COOKIE", "sessionid"),
		SessionTTL:              getEnvAsDuration("SESSION_TTL", 72*time.Hour),
		StorageBackend:          getEnv("STORAGE_BACKEND", "local"),
		MediaRoot:               getEnv("MEDIA_ROOT", "./media"),
		MediaURL:                getEnv("MEDIA_URL", "/media/"),
		S3Region:                getEnv("S3_REGION", "us-west-2"),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		GCSBucket:               getEnv("GCS_BUCKET", ""),
		GCSCredentialsFile:      getEnv("GCS_CREDENTIALS_FILE", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		AdminToken:              getEnv("ADMIN_TOKEN", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare integers are taken as seconds.
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid duration for %s: %q, using default %s", key, value, defaultValue)
	return defaultValue
}
