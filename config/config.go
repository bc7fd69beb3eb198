package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	S3        S3Config
	Redis     RedisConfig
	Upload    UploadConfig
	Directory DirectoryConfig
	Admin     AdminConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// RedisConfig is optional: an empty Host disables token revocation.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Upload drivers
const (
	UploadDriverLocal = "local"
	UploadDriverS3    = "s3"
)

type UploadConfig struct {
	Driver          string
	LocalDir        string
	MaxFileBytes    int64
	MaxGalleryFiles int
}

type DirectoryConfig struct {
	PageSize     int
	MediaBaseURL string // prefix for ${baseUrl}/${relativePath}
	Locale       string // collation locale for sorting
}

// AdminConfig bootstraps the first admin account on migrate.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

type SchedulerConfig struct {
	ProfileViewRetention time.Duration
	CleanupSpec          string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "member_directory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxIdleConns:    parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns:    parseInt(getEnv("DB_MAX_OPEN_CONNS", "50"), 50),
			ConnMaxLifetime: parseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"), 30*time.Minute),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "member-directory-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Upload: UploadConfig{
			Driver:          getEnv("UPLOAD_DRIVER", UploadDriverLocal),
			LocalDir:        getEnv("UPLOAD_DIR", "./uploads"),
			MaxFileBytes:    int64(parseInt(getEnv("UPLOAD_MAX_FILE_MB", "10"), 10)) << 20,
			MaxGalleryFiles: parseInt(getEnv("UPLOAD_MAX_GALLERY_FILES", "10"), 10),
		},
		Directory: DirectoryConfig{
			PageSize:     parseInt(getEnv("DIRECTORY_PAGE_SIZE", "5"), 5),
			MediaBaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:8080"),
			Locale:       getEnv("DIRECTORY_LOCALE", "en"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
		},
		Scheduler: SchedulerConfig{
			ProfileViewRetention: parseDuration(getEnv("PROFILE_VIEW_RETENTION", "2160h"), 90*24*time.Hour),
			CleanupSpec:          getEnv("PROFILE_VIEW_CLEANUP_CRON", "0 3 * * *"),
		},
	}

	if config.Upload.Driver != UploadDriverLocal && config.Upload.Driver != UploadDriverS3 {
		return nil, fmt.Errorf("unsupported upload driver %q", config.Upload.Driver)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		log.Printf("Invalid number %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
