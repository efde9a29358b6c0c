package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SearchBackendAuto    = "auto"
	SearchBackendYtDlp   = "ytdlp"
	SearchBackendDataAPI = "dataapi"
)

// Config holds everything the server needs, resolved from .env, the
// environment and command line flags (in increasing priority).
type Config struct {
	Port          string
	Env           string
	DeveloperName string
	APIVersion    string
	ServiceName   string

	LogDir   string
	LogLevel string

	FetchTimeout       time.Duration
	FetchMaxRetries    int
	BreakerFailures    int
	BreakerOpenTimeout time.Duration

	SearchBackend    string
	SearchMaxResults int
	YtDlpPath        string
	YouTubeAPIKey    string
	// YtDlpEnrich fills category and keywords from yt-dlp after a resolve.
	YtDlpEnrich bool

	CacheTTL        time.Duration
	CacheMaxEntries int
	RedisURL        string

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// honoured for client IPs. Empty trusts no proxy.
	TrustedProxies []string

	DownloadPrimaryURL     string
	DownloadAlternativeURL string
}

// IsDevelopment reports whether internal error detail may be returned to callers.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// SetDefaults registers every key with its default so that AutomaticEnv can
// pick it up and Unmarshal-style lookups never come back empty.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("app_env", EnvProduction)
	v.SetDefault("developer_name", "Your Name")
	v.SetDefault("api_version", "2.0.0")
	v.SetDefault("service_name", "YouTube MP3 Downloader API")
	v.SetDefault("log_dir", "storage/logs")
	v.SetDefault("log_level", "info")
	v.SetDefault("fetch_timeout", 20*time.Second)
	v.SetDefault("fetch_max_retries", 2)
	v.SetDefault("breaker_failures", 5)
	v.SetDefault("breaker_open_timeout", 30*time.Second)
	v.SetDefault("search_backend", SearchBackendAuto)
	v.SetDefault("search_max_results", 50)
	v.SetDefault("ytdlp_path", "tools/yt-dlp")
	v.SetDefault("youtube_api_key", "")
	v.SetDefault("ytdlp_enrich", true)
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("cache_max_entries", 1000)
	v.SetDefault("redis_url", "")
	v.SetDefault("rate_limit_rps", 10.0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("download_primary_url", "https://loader.to/api/download/")
	v.SetDefault("download_alternative_url", "https://api.y2mate.guru/api/convert")
}

// LoadEnvFile loads a dotenv file into the process environment. A missing
// file is not an error; the server runs fine on plain environment variables.
func LoadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Warn().Str("file", path).Msg(".env file not found")
	}
}

// New returns a viper instance bound to the process environment with defaults applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads and validates the configuration from v.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Port:                   v.GetString("port"),
		Env:                    strings.ToLower(strings.TrimSpace(v.GetString("app_env"))),
		DeveloperName:          v.GetString("developer_name"),
		APIVersion:             v.GetString("api_version"),
		ServiceName:            v.GetString("service_name"),
		LogDir:                 v.GetString("log_dir"),
		LogLevel:               v.GetString("log_level"),
		FetchTimeout:           v.GetDuration("fetch_timeout"),
		FetchMaxRetries:        v.GetInt("fetch_max_retries"),
		BreakerFailures:        v.GetInt("breaker_failures"),
		BreakerOpenTimeout:     v.GetDuration("breaker_open_timeout"),
		SearchBackend:          strings.ToLower(v.GetString("search_backend")),
		SearchMaxResults:       v.GetInt("search_max_results"),
		YtDlpPath:              v.GetString("ytdlp_path"),
		YouTubeAPIKey:          v.GetString("youtube_api_key"),
		YtDlpEnrich:            v.GetBool("ytdlp_enrich"),
		CacheTTL:               v.GetDuration("cache_ttl"),
		CacheMaxEntries:        v.GetInt("cache_max_entries"),
		RedisURL:               v.GetString("redis_url"),
		RateLimitRPS:           v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:         v.GetInt("rate_limit_burst"),
		TrustedProxies:         splitList(v.GetString("trusted_proxies")),
		DownloadPrimaryURL:     v.GetString("download_primary_url"),
		DownloadAlternativeURL: v.GetString("download_alternative_url"),
	}
	if c.Env == "" {
		c.Env = EnvProduction
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.FetchMaxRetries < 0 {
		return fmt.Errorf("fetch_max_retries must not be negative, got %d", c.FetchMaxRetries)
	}
	if c.SearchMaxResults < 1 {
		return fmt.Errorf("search_max_results must be at least 1, got %d", c.SearchMaxResults)
	}
	switch c.SearchBackend {
	case SearchBackendAuto, SearchBackendYtDlp:
	case SearchBackendDataAPI:
		if c.YouTubeAPIKey == "" {
			return fmt.Errorf("search_backend %q requires youtube_api_key", c.SearchBackend)
		}
	default:
		return fmt.Errorf("unknown search_backend %q", c.SearchBackend)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	return nil
}

// splitList parses a comma separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// UseDataAPI reports whether search should go through the YouTube Data API.
func (c Config) UseDataAPI() bool {
	switch c.SearchBackend {
	case SearchBackendDataAPI:
		return true
	case SearchBackendAuto:
		return c.YouTubeAPIKey != ""
	}
	return false
}
