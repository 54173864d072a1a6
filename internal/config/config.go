package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Types reflect how the values are used: strings
// for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	Mail           MailConfig
	Storage        StorageConfig
}

// MailConfig carries SMTP settings for outbound email. When Host is empty,
// email sending is disabled and callers log instead of failing.
type MailConfig struct {
	Host string // SMTP server host (empty disables email)
	Port int    // SMTP server port
	User string // SMTP username
	Pass string // SMTP password
	From string // From address on outgoing mail
}

// StorageConfig carries object-storage (MinIO/S3) settings. PublicBucket
// holds listing images and avatars served by public URL; PrivateBucket
// holds identity documents retrieved via presigned URLs only.
type StorageConfig struct {
	Endpoint      string // host:port of the object store
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBucket  string
	PrivateBucket string
}

// Load reads configuration values from environment variables. Required
// variables are enforced by must(); missing values exit with a fatal log.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		Mail: MailConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: atoi(getenv("SMTP_PORT", "587")),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: getenv("SMTP_FROM", "no-reply@homestay.local"),
		},
		Storage: StorageConfig{
			Endpoint:      os.Getenv("MINIO_ENDPOINT"), // empty disables object storage
			AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:        getenv("MINIO_USE_SSL", "false") == "true",
			PublicBucket:  getenv("MINIO_PUBLIC_BUCKET", "homestay-public"),
			PrivateBucket: getenv("MINIO_PRIVATE_BUCKET", "homestay-identity"),
		},
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application exits with a fatal log.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
