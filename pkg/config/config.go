package config

import (
	"errors"
	"imovelhub/pkg/customerror"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
	MediaLocal      = "local"
	MediaS3         = "s3"
)

type Config struct {
	Storage       string
	DbHost        string
	DbPort        string
	DbUser        string
	DbPassword    string
	DbName        string
	WebHost       string
	WebPort       string
	MainUrl       string
	SecretKey     string
	RedisAddr     string
	RedisPassword string
	MediaBackend  string
	S3Bucket      string
	AwsRegion     string
	SmtpHost      string
	SmtpPort      string
	MailToken     string
	From          string
	Seed          bool
}

func NewConfig(dotenvPath string) (*Config, error) {
	err := godotenv.Load(dotenvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Config{}, customerror.NewError("config.NewConfig", "", err.Error())
	}
	var config Config
	config.Storage = getenvDefault("STORAGE", StorageMemory)
	switch config.Storage {
	case StorageMemory:
	case StoragePostgres:
		for key, dest := range map[string]*string{
			"DB_HOST":     &config.DbHost,
			"DB_PORT":     &config.DbPort,
			"DB_USER":     &config.DbUser,
			"DB_PASSWORD": &config.DbPassword,
			"DB_NAME":     &config.DbName,
		} {
			*dest = os.Getenv(key)
			if *dest == "" {
				return &Config{}, customerror.NewError("config.NewConfig", "", key+" incorrect")
			}
		}
	default:
		return &Config{}, customerror.NewError("config.NewConfig", "", "STORAGE incorrect")
	}
	config.WebHost = os.Getenv("WEB_HOST")
	if config.WebHost == "" {
		return &Config{}, customerror.NewError("config.NewConfig", "", "WEB_HOST incorrect")
	}
	config.WebPort = os.Getenv("WEB_PORT")
	if config.WebPort == "" {
		return &Config{}, customerror.NewError("config.NewConfig", "", "WEB_PORT incorrect")
	}
	config.SecretKey = os.Getenv("SECRET_KEY")
	if config.SecretKey == "" {
		return &Config{}, customerror.NewError("config.NewConfig", "", "SECRET_KEY empty")
	}
	config.MainUrl = os.Getenv("MAIN_URL")
	if config.MainUrl == "" {
		return &Config{}, customerror.NewError("config.NewConfig", "", "MAIN_URL empty")
	}
	config.RedisAddr = os.Getenv("REDIS_ADDR")
	config.RedisPassword = os.Getenv("REDIS_PASSWORD")
	config.MediaBackend = getenvDefault("MEDIA_BACKEND", MediaLocal)
	switch config.MediaBackend {
	case MediaLocal:
	case MediaS3:
		config.S3Bucket = os.Getenv("S3_BUCKET")
		if config.S3Bucket == "" {
			return &Config{}, customerror.NewError("config.NewConfig", "", "S3_BUCKET empty")
		}
		config.AwsRegion = os.Getenv("AWS_REGION")
		if config.AwsRegion == "" {
			return &Config{}, customerror.NewError("config.NewConfig", "", "AWS_REGION empty")
		}
	default:
		return &Config{}, customerror.NewError("config.NewConfig", "", "MEDIA_BACKEND incorrect")
	}
	config.SmtpHost = os.Getenv("SMTP_HOST")
	config.SmtpPort = getenvDefault("SMTP_PORT", "465")
	config.MailToken = os.Getenv("MAIL_TOKEN")
	config.From = os.Getenv("FROM")
	config.Seed = os.Getenv("SEED") == "true"
	return &config, nil
}

// MailEnabled reports whether outgoing mail is configured.
func (config *Config) MailEnabled() bool {
	return config.SmtpHost != "" && config.MailToken != "" && config.From != ""
}

func (config *Config) Endpoint() string {
	return config.WebHost + ":" + config.WebPort
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
