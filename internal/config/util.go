package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func loadYAML(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	filename, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	yamlFile, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	return nil
}

// applyEnv loads .env when present and lets environment variables
// override the file values.
func applyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	setString(&cfg.AuthAPI.BaseURL, "AUTH_API_URL")
	setString(&cfg.Token.Secret, "TOKEN_SECRET")
	setString(&cfg.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&cfg.Firebase.CredentialsFile, "FIREBASE_CREDENTIALS_FILE")
	setString(&cfg.Firebase.Bucket, "FIREBASE_BUCKET")
	setString(&cfg.Session.RedisURL, "REDIS_URL")
	setString(&cfg.Mail.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&cfg.Repository.Driver, "REPOSITORY_DRIVER")
	setString(&cfg.Repository.DSN, "REPOSITORY_DSN")
	setString(&cfg.Blob.Driver, "BLOB_DRIVER")

	if v := os.Getenv("PORTAL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORTAL_PORT: %w", err)
		}
		cfg.Portal.Port = port
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
