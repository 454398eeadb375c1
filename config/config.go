package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	TokenSecret     string
	TokenTTL        time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration
	MaxBodyBytes    int64
	Debug           bool
}

// ParseFlags reads configuration from command-line flags, with a .env
// file (if present) providing flag defaults through the environment.
func ParseFlags() (cfg Config, err error) {
	godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("FORMHIVE_HOST", "0.0.0.0"), "listen host name")
	var port uint
	flag.UintVar(&port, "port", envUint("FORMHIVE_PORT", 8080), "listen port number")
	flag.StringVar(&cfg.DBPath, "db-path", envOr("FORMHIVE_DB_PATH", "formhive.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("FORMHIVE_TOKEN_SECRET"), "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", envUint("FORMHIVE_TOKEN_TTL", 120), "token TTL in seconds")
	var rlMax uint
	flag.UintVar(&rlMax, "rate-limit-max", envUint("FORMHIVE_RATE_LIMIT_MAX", 10), "submissions allowed per client per window")
	var rlWindow uint
	flag.UintVar(&rlWindow, "rate-limit-window", envUint("FORMHIVE_RATE_LIMIT_WINDOW", 900), "rate limit window in seconds")
	var maxBody uint
	flag.UintVar(&maxBody, "max-body", envUint("FORMHIVE_MAX_BODY", 1<<20), "max submission body size in bytes")
	flag.BoolVar(&cfg.Debug, "debug", os.Getenv("FORMHIVE_DEBUG") == "true", "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second
	cfg.RateLimitMax = int(rlMax)
	cfg.RateLimitWindow = time.Duration(rlWindow) * time.Second
	cfg.MaxBodyBytes = int64(maxBody)

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(n)
		}
	}
	return fallback
}
