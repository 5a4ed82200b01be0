package app

import (
	"strings"
	"time"

	"github.com/aulahub/aulahub-backend/internal/platform/envutil"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
)

type Config struct {
	JWTSecretKey string
	TokenTTL     time.Duration
	CacheTTL     time.Duration

	RedisAddr    string
	RedisChannel string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	MediaDir     string
	MediaBaseURL string
	CORSOrigins  []string
	CookieSecure bool
}

func LoadConfig(log *logger.Logger) Config {
	tokenTTLSeconds := envutil.GetEnvAsInt("TOKEN_TTL", 3600, log)
	cacheTTLSeconds := envutil.GetEnvAsInt("PUBLISHED_CACHE_TTL", 60, log)

	var origins []string
	if raw := envutil.GetEnv("CORS_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return Config{
		JWTSecretKey: envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		TokenTTL:     time.Duration(tokenTTLSeconds) * time.Second,
		CacheTTL:     time.Duration(cacheTTLSeconds) * time.Second,

		RedisAddr:    envutil.GetEnv("REDIS_ADDR", "", log),
		RedisChannel: envutil.GetEnv("REDIS_CHANNEL", "sse", log),

		Neo4jURI:      envutil.GetEnv("NEO4J_URI", "bolt://localhost:7687", log),
		Neo4jUser:     envutil.GetEnv("NEO4J_USER", "neo4j", log),
		Neo4jPassword: envutil.GetEnv("NEO4J_PASSWORD", "", log),
		Neo4jDatabase: envutil.GetEnv("NEO4J_DATABASE", "", log),

		MediaDir:     envutil.GetEnv("MEDIA_DIR", "./media", log),
		MediaBaseURL: envutil.GetEnv("MEDIA_BASE_URL", "/media", log),
		CORSOrigins:  origins,
		CookieSecure: envutil.GetEnv("COOKIE_SECURE", "false", log) == "true",
	}
}
