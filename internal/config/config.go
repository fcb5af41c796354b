package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "CV_CONFIG"

type Config struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"corsOrigin"`
	LogLevel   string `yaml:"logLevel"`

	MongoURI      string `yaml:"mongoUri"`
	MongoDatabase string `yaml:"mongoDatabase"`

	// Upload pipeline
	UploadSecret  string `yaml:"uploadSecret"`
	SourceControl string `yaml:"sourceControl"`
	GitHubToken   string `yaml:"githubToken"`
	GitHubOwner   string `yaml:"githubOwner"`
	GitHubRepo    string `yaml:"githubRepo"`
	GitHubAPIURL  string `yaml:"githubApiUrl"`
	DataBranch    string `yaml:"dataBranch"`
	DataPath      string `yaml:"dataPath"`
	LocalRepoDir  string `yaml:"localRepoDir"`

	EbayVerificationToken string `yaml:"ebayVerificationToken"`

	// Deploy host
	NetlifyToken  string        `yaml:"netlifyToken"`
	NetlifySiteID string        `yaml:"netlifySiteId"`
	NetlifyAPIURL string        `yaml:"netlifyApiUrl"`
	PublicBaseURL string        `yaml:"publicBaseUrl"`
	PollInterval  time.Duration `yaml:"-"`

	// Redis response cache, disabled when RedisURL is empty
	RedisURL string        `yaml:"redisUrl"`
	CacheTTL time.Duration `yaml:"-"`

	// Raw CSV archive, disabled when ArchiveEndpoint is empty
	ArchiveEndpoint  string `yaml:"archiveEndpoint"`
	ArchiveAccessKey string `yaml:"archiveAccessKey"`
	ArchiveSecretKey string `yaml:"archiveSecretKey"`
	ArchiveBucket    string `yaml:"archiveBucket"`
	ArchiveUseSSL    bool   `yaml:"archiveUseSsl"`

	CacheTTLSeconds     int `yaml:"cacheTtlSeconds"`
	PollIntervalSeconds int `yaml:"pollIntervalSeconds"`
}

// Load reads the optional YAML file named by CV_CONFIG, then lets the
// environment override every key.
func Load() Config {
	file := readFile(os.Getenv(configPathEnv))

	cfg := Config{
		Addr:          getenv("API_ADDR", or(file.Addr, ":8888")),
		CORSOrigin:    getenv("CORS_ORIGIN", or(file.CORSOrigin, "*")),
		LogLevel:      getenv("LOG_LEVEL", or(file.LogLevel, "info")),
		MongoURI:      getenv("MONGODB_URI", file.MongoURI),
		MongoDatabase: getenv("MONGODB_DB", or(file.MongoDatabase, "webspace")),

		UploadSecret:  getenv("UPLOAD_SECRET_KEY", file.UploadSecret),
		SourceControl: strings.ToLower(getenv("SOURCE_CONTROL", or(file.SourceControl, "github"))),
		GitHubToken:   getenv("GITHUB_PAT", file.GitHubToken),
		GitHubOwner:   getenv("GITHUB_OWNER", file.GitHubOwner),
		GitHubRepo:    getenv("GITHUB_REPO", file.GitHubRepo),
		GitHubAPIURL:  getenv("GITHUB_API_URL", file.GitHubAPIURL),
		DataBranch:    getenv("DATA_BRANCH", or(file.DataBranch, "main")),
		DataPath:      strings.Trim(getenv("DATA_PATH", or(file.DataPath, "src/data/cv")), "/"),
		LocalRepoDir:  getenv("LOCAL_REPO_DIR", or(file.LocalRepoDir, "./data/repo")),

		EbayVerificationToken: getenv("EBAY_VERIFICATION_TOKEN", file.EbayVerificationToken),

		NetlifyToken:  getenv("NETLIFY_API_TOKEN", file.NetlifyToken),
		NetlifySiteID: getenv("NETLIFY_SITE_ID", file.NetlifySiteID),
		NetlifyAPIURL: getenv("NETLIFY_API_URL", or(file.NetlifyAPIURL, "https://api.netlify.com/api/v1")),
		PublicBaseURL: strings.TrimRight(getenv("PUBLIC_BASE_URL", or(file.PublicBaseURL, "http://localhost:8888")), "/"),

		RedisURL: getenv("REDIS_URL", file.RedisURL),

		ArchiveEndpoint:  getenv("ARCHIVE_ENDPOINT", file.ArchiveEndpoint),
		ArchiveAccessKey: getenv("ARCHIVE_ACCESS_KEY", file.ArchiveAccessKey),
		ArchiveSecretKey: getenv("ARCHIVE_SECRET_KEY", file.ArchiveSecretKey),
		ArchiveBucket:    getenv("ARCHIVE_BUCKET", or(file.ArchiveBucket, "cv-uploads")),
		ArchiveUseSSL:    getenvBool("ARCHIVE_USE_SSL", file.ArchiveUseSSL),
	}

	cfg.CacheTTLSeconds = getenvInt("CACHE_TTL_SECONDS", orInt(file.CacheTTLSeconds, 60))
	cfg.PollIntervalSeconds = getenvInt("POLL_INTERVAL_SECONDS", orInt(file.PollIntervalSeconds, 5))
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	return cfg
}

func readFile(path string) Config {
	if path == "" {
		return Config{}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: cannot read %s: %v (using environment only)", path, err)
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Printf("config: cannot parse %s: %v (using environment only)", path, err)
		return Config{}
	}
	return cfg
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
