package config

import "os"

type Config struct {
	HTTPAddr      string
	MySQLDSN      string
	RedisAddr     string
	GatewayURL    string
	GatewayKey    string
	NotifierURL   string
	ReturnBaseURL string
	MigrationDir  string
	WorkerCount   int
	QueueSize     int
}

var DefaultConfig = Config{
	HTTPAddr:      ":8080",
	MySQLDSN:      "root:root@tcp(localhost:3306)/tastebite?parseTime=true",
	RedisAddr:     "localhost:6379",
	GatewayURL:    "http://localhost:9090",
	GatewayKey:    "test-key",
	NotifierURL:   "http://localhost:9091/notify",
	ReturnBaseURL: "http://localhost:3000",
	MigrationDir:  "migrations",
	WorkerCount:   4,
	QueueSize:     1024,
}

// FromEnv returns DefaultConfig with any set environment variables applied.
func FromEnv() Config {
	conf := DefaultConfig
	override(&conf.HTTPAddr, "HTTP_ADDR")
	override(&conf.MySQLDSN, "MYSQL_DSN")
	override(&conf.RedisAddr, "REDIS_ADDR")
	override(&conf.GatewayURL, "GATEWAY_URL")
	override(&conf.GatewayKey, "GATEWAY_KEY")
	override(&conf.NotifierURL, "NOTIFIER_URL")
	override(&conf.ReturnBaseURL, "RETURN_BASE_URL")
	override(&conf.MigrationDir, "MIGRATION_DIR")
	return conf
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
