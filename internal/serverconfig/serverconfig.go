package serverconfig

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/theheadmen/figurine/internal/logger"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type ConfigStore struct {
	FlagRunAddr      string
	FlagDBDriver     string
	FlagDatabase     string
	FlagUploadDir    string
	FlagStaticDir    string
	FlagBaseURL      string
	SessionSecret    string
	AllowedExts      []string
	RequireConfirmed bool
	Mail             MailConfig
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

// ParseFlags обрабатывает аргументы командной строки и переменные окружения,
// окружение имеет приоритет. Перед чтением окружения подгружается .env файл.
func (configStore *ConfigStore) ParseFlags() {
	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, relying on environment variables")
	}

	flag.StringVar(&configStore.FlagRunAddr, "a", ":8080", "address and port to run server")
	flag.StringVar(&configStore.FlagDBDriver, "driver", "sqlite", "database driver, sqlite or postgres")
	flag.StringVar(&configStore.FlagDatabase, "d", "orders.db", "data for connecting to db")
	flag.StringVar(&configStore.FlagUploadDir, "u", "static/uploads", "directory for uploaded photos")
	flag.StringVar(&configStore.FlagStaticDir, "s", "static", "directory with static pages")
	flag.StringVar(&configStore.FlagBaseURL, "b", "http://localhost:8080", "public base url for links in emails")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		configStore.FlagRunAddr = envRunAddr
	}
	if envDriver := os.Getenv("DB_DRIVER"); envDriver != "" {
		configStore.FlagDBDriver = envDriver
	}
	if envDatabase := os.Getenv("DATABASE_URI"); envDatabase != "" {
		configStore.FlagDatabase = envDatabase
	}
	if envUploadDir := os.Getenv("UPLOAD_DIR"); envUploadDir != "" {
		configStore.FlagUploadDir = envUploadDir
	}
	if envStaticDir := os.Getenv("STATIC_DIR"); envStaticDir != "" {
		configStore.FlagStaticDir = envStaticDir
	}
	if envBaseURL := os.Getenv("BASE_URL"); envBaseURL != "" {
		configStore.FlagBaseURL = envBaseURL
	}

	configStore.SessionSecret = os.Getenv("SESSION_SECRET")
	if configStore.SessionSecret == "" {
		logger.Fatal("SESSION_SECRET is not set, server will exit")
	}

	// пустой список выключает проверку расширений
	exts := "png,jpg,jpeg"
	if envExts, ok := os.LookupEnv("ALLOWED_EXTENSIONS"); ok {
		exts = envExts
	}
	configStore.AllowedExts = splitExts(exts)

	configStore.RequireConfirmed = os.Getenv("REQUIRE_CONFIRMED_EMAIL") == "1"

	configStore.Mail = MailConfig{
		Host:     os.Getenv("MAIL_HOST"),
		Port:     envOrDefault("MAIL_PORT", "587"),
		Username: os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
		From:     envOrDefault("MAIL_FROM", "noreply@figurine.local"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitExts(raw string) []string {
	var exts []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			exts = append(exts, e)
		}
	}
	return exts
}
