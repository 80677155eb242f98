// Package config loads the API server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Server holds the API server settings
type Server struct {
	Port          string
	Environment   string
	DBDriver      string
	DatabaseURL   string
	StorageDriver string
	AWSRegion     string
	AWSBucket     string
	CDNBaseURL    string
	UploadDir     string
	PublicBaseURL string
	LogLevel      string
	LogFile       string
	OTelEnabled   bool
	OTelEndpoint  string
	OTelSampling  float64
	CORSOrigins   []string
}

// LoadEnvFiles loads .env files if present. It reports whether one was found.
func LoadEnvFiles(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// FromEnv reads the server settings from environment variables
func FromEnv() Server {
	port := getEnvOrDefault("PORT", "8000")
	cfg := Server{
		Port:          port,
		Environment:   getEnvOrDefault("ENVIRONMENT", "development"),
		DBDriver:      getEnvOrDefault("DB_DRIVER", "sqlite"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		StorageDriver: getEnvOrDefault("STORAGE_DRIVER", "local"),
		AWSRegion:     getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSBucket:     os.Getenv("AWS_BUCKET"),
		CDNBaseURL:    os.Getenv("CDN_BASE_URL"),
		UploadDir:     getEnvOrDefault("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimSuffix(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:       getEnvOrDefault("LOG_FILE", "server.log"),
		OTelEnabled:   getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:  getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTelSampling:  getEnvFloat("OTEL_SAMPLING_RATE", 1.0),
		CORSOrigins:   splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}
	return cfg
}

// UploadsBaseURL is where locally stored uploads are served from
func (s Server) UploadsBaseURL() string {
	return s.PublicBaseURL + "/uploads"
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
