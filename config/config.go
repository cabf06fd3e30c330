package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	CORSOrigin  string
	Debug       bool
}

// Load reads configuration from a .env file (if present) and the environment,
// with command line flags taking precedence.
func Load() (cfg Config, err error) {
	_ = godotenv.Load()

	var host, port string
	flag.StringVar(&host, "host", getenv("HOST", "0.0.0.0"), "listen host name")
	flag.StringVar(&port, "port", getenv("PORT", "3000"), "listen port number")
	flag.StringVar(&cfg.DBUrl, "db-url", getenv("DB_URL", "surveyappl.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("TOKEN_SECRET"), "secret key for token signing")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", getenvDuration("TOKEN_TTL", 7*24*time.Hour), "session token time to live")
	flag.StringVar(&cfg.CORSOrigin, "cors-origin", getenv("CORS_ORIGIN", "*"), "allowed cross-origin domain")
	flag.BoolVar(&cfg.Debug, "debug", os.Getenv("DEBUG") != "", "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, port)

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret (env TOKEN_SECRET)")
	}

	return
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
