package config

import (
	"os"
	"strings"
	"time"

	pstrings "github.com/stratosilva/ethiopia-thdf/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string

	// Health registry connection.
	RegistryBaseURL string
	RegistryToken   string

	// Wizard session retention.
	SessionTTL time.Duration

	// Optional backing services. Empty values disable the integration and
	// the in-memory fallback is used instead.
	RedisAddr    string
	DatabaseURL  string
	KafkaBrokers []string
	AuditTopic   string
}

// MetadataCacheTTL bounds how long registry picklists are served from cache.
var MetadataCacheTTL = 10 * time.Minute

// SessionTTL is how long an idle declaration session survives before it is
// garbage collected.
var SessionTTL = 2 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("THDF_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("THDF_ENV")
	if env == "" {
		env = "development"
	}

	baseURL := os.Getenv("THDF_REGISTRY_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9301"
	}

	if v := os.Getenv("THDF_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			SessionTTL = d
		}
	}
	if v := os.Getenv("THDF_METADATA_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			MetadataCacheTTL = d
		}
	}

	var brokers []string
	if v := os.Getenv("THDF_KAFKA_BROKERS"); v != "" {
		brokers = pstrings.DedupeAndTrim(strings.Split(v, ","))
	}

	topic := os.Getenv("THDF_AUDIT_TOPIC")
	if topic == "" {
		topic = "thdf.audit"
	}

	return Server{
		Addr:            addr,
		Environment:     env,
		RegistryBaseURL: baseURL,
		RegistryToken:   os.Getenv("THDF_REGISTRY_TOKEN"),
		SessionTTL:      SessionTTL,
		RedisAddr:       os.Getenv("THDF_REDIS_ADDR"),
		DatabaseURL:     os.Getenv("THDF_DATABASE_URL"),
		KafkaBrokers:    brokers,
		AuditTopic:      topic,
	}
}
