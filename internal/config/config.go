package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PropertyMapping — имена свойств в базе Notion.
type PropertyMapping struct {
	Title       string
	Slug        string
	Status      string
	PublishDate string
	Tags        string
	Category    string
	Excerpt     string
	Featured    string
}

type Config struct {
	Port string

	Log      string
	LogLevel string
	Env      string // dev|prod

	NotionAPIKey        string
	NotionDatabaseID    string
	NotionVersion       string
	NotionTimeout       time.Duration
	NotionProps         PropertyMapping
	NotionPublished     string
	NotionWebhookSecret string

	RevalidateToken   string
	RevalidateURL     string
	RevalidateTimeout time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	CloudinaryTimeout   time.Duration

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret string

	SiteURL            string
	PostsPerPage       int
	WebhookConcurrency int
	MirrorConcurrency  int
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port: def(os.Getenv("PORT"), "8080"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		NotionAPIKey:     strings.TrimSpace(os.Getenv("NOTION_API_KEY")),
		NotionDatabaseID: strings.TrimSpace(os.Getenv("NOTION_DATABASE_ID")),
		NotionVersion:    def(os.Getenv("NOTION_VERSION"), "2025-09-03"),
		NotionProps: PropertyMapping{
			Title:       def(os.Getenv("NOTION_PROP_TITLE"), "Title"),
			Slug:        def(os.Getenv("NOTION_PROP_SLUG"), "Slug"),
			Status:      def(os.Getenv("NOTION_PROP_STATUS"), "Status"),
			PublishDate: def(os.Getenv("NOTION_PROP_PUBLISH_DATE"), "PublishDate"),
			Tags:        def(os.Getenv("NOTION_PROP_TAGS"), "Tags"),
			Category:    def(os.Getenv("NOTION_PROP_CATEGORY"), "Category"),
			Excerpt:     def(os.Getenv("NOTION_PROP_EXCERPT"), "Excerpt"),
			Featured:    def(os.Getenv("NOTION_PROP_FEATURED"), "Featured"),
		},
		NotionPublished:     def(os.Getenv("NOTION_PUBLISHED_STATUS"), "Published"),
		NotionWebhookSecret: strings.TrimSpace(os.Getenv("NOTION_WEBHOOK_SECRET")),

		RevalidateToken: strings.TrimSpace(os.Getenv("REVALIDATE_TOKEN")),
		RevalidateURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("REVALIDATE_URL")), "/"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    def(os.Getenv("CLOUDINARY_FOLDER"), "blog"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SiteURL: strings.TrimRight(def(os.Getenv("SITE_URL"), "http://localhost:3000"), "/"),
	}

	var err error
	if cfg.NotionTimeout, err = parseDuration("NOTION_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.RevalidateTimeout, err = parseDuration("REVALIDATE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CloudinaryTimeout, err = parseDuration("CLOUDINARY_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.PostsPerPage, err = parseInt("POSTS_PER_PAGE", 10); err != nil {
		return nil, err
	}
	if cfg.WebhookConcurrency, err = parseInt("WEBHOOK_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if cfg.MirrorConcurrency, err = parseInt("MIRROR_CONCURRENCY", 4); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(key, d string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = d
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return v, nil
}

func parseInt(key string, d int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return d, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	return v, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: Notion
	if c.NotionAPIKey == "" || c.NotionDatabaseID == "" {
		return nil, fmt.Errorf("incomplete Notion config (NOTION_API_KEY/NOTION_DATABASE_ID)")
	}

	if c.NotionWebhookSecret == "" {
		warnings = append(warnings, "NOTION_WEBHOOK_SECRET is empty, webhook signature verification is disabled")
	}
	if c.RevalidateToken == "" {
		warnings = append(warnings, "REVALIDATE_TOKEN is empty, /api/revalidate will answer 500")
	}
	if !c.CloudinaryConfigured() {
		warnings = append(warnings, "Cloudinary credentials are not set, image mirroring is disabled")
	}
	if c.RedisAddress == "" {
		warnings = append(warnings, "REDIS_ADDRESS is empty, using in-memory page cache")
	}
	if !c.DatabaseConfigured() {
		warnings = append(warnings, "DB is not configured, using in-memory image ledger")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty, admin routes are disabled")
	}

	if c.PostsPerPage <= 0 {
		warnings = append(warnings, "POSTS_PER_PAGE must be positive, using 10")
		c.PostsPerPage = 10
	}
	if c.WebhookConcurrency <= 0 {
		c.WebhookConcurrency = 8
	}
	if c.MirrorConcurrency <= 0 {
		c.MirrorConcurrency = 4
	}

	return warnings, nil
}

// CloudinaryConfigured — заданы ли все три ключа Cloudinary.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c *Config) DatabaseConfigured() bool {
	return c.DbHost != "" && c.DbUser != "" && c.DbName != ""
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
