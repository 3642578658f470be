package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                 string
	DatabaseURL          string
	JWTSecret            string
	Environment          string
	NarrativeBaseURL     string
	NarrativeAPIKey      string
	NarrativeModel       string
	NarrativeTimeout     time.Duration
	NarrativeMaxTokens   int
	SnapshotEnabled      bool
	SnapshotWeekday      string
	WeeklyReportInterval time.Duration
	WeeklyReportTemplate string
	AggregationWorkers   int
}

func Load() Config {
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		Environment:          getEnv("APP_ENV", "development"),
		NarrativeBaseURL:     getEnv("NARRATIVE_BASE_URL", ""),
		NarrativeAPIKey:      getEnv("NARRATIVE_API_KEY", ""),
		NarrativeModel:       getEnv("NARRATIVE_MODEL", "gpt-4o-mini"),
		NarrativeTimeout:     getEnvDuration("NARRATIVE_TIMEOUT", 30*time.Second),
		NarrativeMaxTokens:   getEnvInt("NARRATIVE_MAX_TOKENS", 1200),
		SnapshotEnabled:      getEnvBool("SNAPSHOT_ENABLED", true),
		SnapshotWeekday:      getEnv("SNAPSHOT_WEEKDAY", "Friday"),
		WeeklyReportInterval: getEnvDuration("WEEKLY_REPORT_INTERVAL", time.Hour),
		WeeklyReportTemplate: getEnv("WEEKLY_REPORT_TEMPLATE", "standard_review"),
		AggregationWorkers:   getEnvInt("AGGREGATION_WORKERS", 8),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
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

func getEnvInt(key string, fallback int) int {
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) SnapshotDay() (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(c.SnapshotWeekday)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	}
	return 0, false
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.NarrativeBaseURL) == "" {
		return fmt.Errorf("NARRATIVE_BASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.NarrativeTimeout <= 0 {
		return fmt.Errorf("NARRATIVE_TIMEOUT must be positive")
	}
	if c.NarrativeMaxTokens <= 0 {
		return fmt.Errorf("NARRATIVE_MAX_TOKENS must be positive")
	}
	if c.AggregationWorkers <= 0 {
		return fmt.Errorf("AGGREGATION_WORKERS must be positive")
	}
	if c.SnapshotEnabled {
		if _, ok := c.SnapshotDay(); !ok {
			return fmt.Errorf("SNAPSHOT_WEEKDAY must be a weekday name")
		}
	}
	return nil
}
