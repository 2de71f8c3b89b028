package utils

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	AppPort       string `yaml:"APP_PORT"`
	StorageDriver string `yaml:"STORAGE_DRIVER"`
	LogLevel      string `yaml:"LOG_LEVEL"`
	ReadTimeout   string `yaml:"READ_TIMEOUT"`
	WriteTimeout  string `yaml:"WRITE_TIMEOUT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS configuration
	AWSS3Bucket      string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region      string `yaml:"AWS_S3_REGION"`
	AWSAccessKey     string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey     string `yaml:"AWS_SECRET_KEY"`
	DynamoDBTable    string `yaml:"DYNAMODB_TABLE"`
	DynamoDBEndpoint string `yaml:"DYNAMODB_ENDPOINT"`
	SNSTopicARN      string `yaml:"SNS_TOPIC_ARN"`

	// Cache and jobs
	RedisAddr       string `yaml:"REDIS_ADDR"`
	RedisPassword   string `yaml:"REDIS_PASSWORD"`
	CatalogCacheTTL string `yaml:"CATALOG_CACHE_TTL"`
	ReconcileCron   string `yaml:"RECONCILE_CRON"`
}

var config Config

// LoadConfig reads .env (if any) and config.yaml. Environment variables
// take precedence over the YAML file when GetConfig resolves a key.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %s\n", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	switch key {
	case "APP_PORT":
		return config.AppPort
	case "STORAGE_DRIVER":
		return config.StorageDriver
	case "LOG_LEVEL":
		return config.LogLevel
	case "READ_TIMEOUT":
		return config.ReadTimeout
	case "WRITE_TIMEOUT":
		return config.WriteTimeout
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "DYNAMODB_TABLE":
		return config.DynamoDBTable
	case "DYNAMODB_ENDPOINT":
		return config.DynamoDBEndpoint
	case "SNS_TOPIC_ARN":
		return config.SNSTopicARN
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "CATALOG_CACHE_TTL":
		return config.CatalogCacheTTL
	case "RECONCILE_CRON":
		return config.ReconcileCron
	default:
		return ""
	}
}

func GetConfigDefault(key, fallback string) string {
	if v := GetConfig(key); v != "" {
		return v
	}
	return fallback
}

func GetConfigInt(key string, fallback int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}

func GetConfigDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}
