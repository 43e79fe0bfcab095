package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Evidence backends.
const (
	EvidencePostgres = "postgres"
	EvidenceMinio    = "minio"
)

type Config struct {
	HTTPPort   string
	LogLevel   string
	LogFormat  string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL string

	JWTSecret          string
	AdminRoles         []string
	DelayApproverRoles []string

	EvidenceBackend string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool

	OverdueScanSchedule string
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	var errs []error
	if c.DBHost == "" || c.DBName == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
	}
	switch c.EvidenceBackend {
	case EvidencePostgres:
	case EvidenceMinio:
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio evidence backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("EVIDENCE_BACKEND %q is not postgres or minio", c.EvidenceBackend))
	}
	return errors.Join(errs...)
}

// ValidateServe adds the settings only the server needs.
func (c Config) ValidateServe() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required"))
	}
	return errors.Join(append(errs, c.Validate())...)
}

// NewViper binds every setting to its environment variable and sets the
// defaults. Values from an optional .env file are loaded into the
// environment first; variables already set win.
func NewViper(envFile string) (*viper.Viper, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	bindings := map[string]string{
		"http.port":             "HTTP_PORT",
		"log.level":             "LOG_LEVEL",
		"log.format":            "LOG_FORMAT",
		"database.host":         "DB_HOST",
		"database.port":         "DB_PORT",
		"database.user":         "DB_USER",
		"database.password":     "DB_PASSWORD",
		"database.name":         "DB_NAME",
		"database.sslmode":      "DB_SSLMODE",
		"redis.addr":            "REDIS_ADDR",
		"redis.password":        "REDIS_PASSWORD",
		"redis.db":              "REDIS_DB",
		"amqp.url":              "AMQP_URL",
		"jwt.secret":            "JWT_SECRET",
		"authz.admin_roles":     "ADMIN_ROLES",
		"authz.delay_approvers": "DELAY_APPROVER_ROLES",
		"evidence.backend":      "EVIDENCE_BACKEND",
		"minio.endpoint":        "MINIO_ENDPOINT",
		"minio.access_key":      "MINIO_ACCESS_KEY",
		"minio.secret_key":      "MINIO_SECRET_KEY",
		"minio.bucket":          "MINIO_BUCKET",
		"minio.use_ssl":         "MINIO_USE_SSL",
		"jobs.overdue_schedule": "OVERDUE_SCAN_SCHEDULE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	v.SetDefault("http.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.db", 0)
	v.SetDefault("authz.admin_roles", "admin")
	v.SetDefault("evidence.backend", EvidencePostgres)
	v.SetDefault("jobs.overdue_schedule", "0 0 6 * * *")

	return v, nil
}

// LoadConfig reads the settings from v.
func LoadConfig(v *viper.Viper) Config {
	return Config{
		HTTPPort:            v.GetString("http.port"),
		LogLevel:            v.GetString("log.level"),
		LogFormat:           v.GetString("log.format"),
		DBHost:              v.GetString("database.host"),
		DBPort:              v.GetString("database.port"),
		DBUser:              v.GetString("database.user"),
		DBPassword:          v.GetString("database.password"),
		DBName:              v.GetString("database.name"),
		DBSslMode:           v.GetString("database.sslmode"),
		RedisAddr:           v.GetString("redis.addr"),
		RedisPassword:       v.GetString("redis.password"),
		RedisDB:             v.GetInt("redis.db"),
		AMQPURL:             v.GetString("amqp.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		AdminRoles:          splitList(v.GetString("authz.admin_roles")),
		DelayApproverRoles:  splitList(v.GetString("authz.delay_approvers")),
		EvidenceBackend:     strings.ToLower(v.GetString("evidence.backend")),
		MinioEndpoint:       v.GetString("minio.endpoint"),
		MinioAccessKey:      v.GetString("minio.access_key"),
		MinioSecretKey:      v.GetString("minio.secret_key"),
		MinioBucket:         v.GetString("minio.bucket"),
		MinioUseSSL:         v.GetBool("minio.use_ssl"),
		OverdueScanSchedule: v.GetString("jobs.overdue_schedule"),
	}
}

// splitList splits a comma separated environment value.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
