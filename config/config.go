package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/99rahul8605-ops/Yt-v2/logging"
)

type Config struct {
	Env string `mapstructure:"ENVIRONMENT"`

	// Fiber config
	Port int `mapstructure:"PORT"`

	// Logging config
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Telegram config
	APIID    int    `mapstructure:"TELEGRAM_API_ID"`
	APIHash  string `mapstructure:"TELEGRAM_API_HASH"`
	BotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`

	// Access control, comma separated Telegram user ids
	AllowedUsers string `mapstructure:"ALLOWED_USERS"`
	AdminUsers   string `mapstructure:"ADMIN_USERS"`

	// Download config
	TempDir                string `mapstructure:"TEMP_DIR"`
	MaxDuration            int    `mapstructure:"MAX_DURATION"`
	MaxFileSize            int64  `mapstructure:"MAX_FILE_SIZE"`
	MaxConcurrentDownloads int    `mapstructure:"MAX_CONCURRENT_DOWNLOADS"`

	// Cookies config
	CookiesPath      string `mapstructure:"YOUTUBE_COOKIES_PATH"`
	CookiesBackupDir string `mapstructure:"COOKIES_BACKUP_DIR"`
}

var cfg *Config

func init() {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../.")

	viper.SetDefault("ENVIRONMENT", "")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("TELEGRAM_API_ID", 0)
	viper.SetDefault("TELEGRAM_API_HASH", "")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("ALLOWED_USERS", "")
	viper.SetDefault("ADMIN_USERS", "")
	viper.SetDefault("TEMP_DIR", "/tmp/ytdl")
	viper.SetDefault("MAX_DURATION", 1800)
	viper.SetDefault("MAX_FILE_SIZE", int64(1500000000))
	viper.SetDefault("MAX_CONCURRENT_DOWNLOADS", 1)
	viper.SetDefault("YOUTUBE_COOKIES_PATH", "/tmp/cookies.txt")
	viper.SetDefault("COOKIES_BACKUP_DIR", "/tmp/cookies_backup")
	viper.AutomaticEnv()

	// Read config file
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		} else {
			log.Fatalln(err)
		}
	}

	// Set config object
	err = viper.Unmarshal(&cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Set default log level to debug if environment is local
	if cfg.Env == logging.EnvLocal && cfg.LogLevel == "" {
		cfg.LogLevel = zap.DebugLevel.String()
	}
	logging.SetLevel(cfg.LogLevel)
}

// Validate checks the required Telegram credentials are present. Called
// from main so importing the package stays side effect free.
func (cfg Config) Validate() error {
	if cfg.APIID == 0 || cfg.APIHash == "" || cfg.BotToken == "" {
		return errors.New("missing required Telegram configuration, check TELEGRAM_API_ID, TELEGRAM_API_HASH and TELEGRAM_BOT_TOKEN")
	}
	return nil
}

// EnsureDirs creates the temp and cookie backup directories, world writable
// so the non-root runtime user can use them.
func (cfg Config) EnsureDirs() error {
	for _, dir := range []string{cfg.TempDir, cfg.CookiesBackupDir} {
		err := os.MkdirAll(dir, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

// AllowedIDs returns the parsed ALLOWED_USERS list. Empty means the bot is
// open to everyone.
func (cfg Config) AllowedIDs() []int64 {
	return parseUserList(cfg.AllowedUsers)
}

// AdminIDs returns the parsed ADMIN_USERS list, falling back to
// ALLOWED_USERS when no admins are configured.
func (cfg Config) AdminIDs() []int64 {
	ids := parseUserList(cfg.AdminUsers)
	if len(ids) == 0 {
		ids = parseUserList(cfg.AllowedUsers)
	}
	return ids
}

func parseUserList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func Get() *Config {
	if cfg == nil {
		log.Fatalln("Config not set ^._.^")
	}
	return cfg
}
