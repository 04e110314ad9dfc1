package main

import (
	"log"
	"os"
	"time"

	"vetflow/access"
	"vetflow/vetting"
)

// Defaults mirror the shared passwords the bot shipped with; override them in
// any real deployment, preferably with bcrypt hashes.
const (
	defaultRetailPassword   = "retl4478"
	defaultSecurityPassword = "secr5541"
)

type config struct {
	Addr        string
	DatabaseURL string
	Secrets     map[vetting.Role]access.Secret
	SessionTTL  time.Duration
	StrictNames bool
}

// configFromEnv builds process configuration from environment variables so
// main stays lean.
func configFromEnv() config {
	cfg := config{
		Addr:        os.Getenv("VETFLOW_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StrictNames: os.Getenv("VETFLOW_STRICT_NAMES") == "true",
		Secrets: map[vetting.Role]access.Secret{
			vetting.RoleRetail: {
				Hash:  os.Getenv("VETFLOW_RETAIL_PASSWORD_HASH"),
				Plain: os.Getenv("VETFLOW_RETAIL_PASSWORD"),
			},
			vetting.RoleSecurity: {
				Hash:  os.Getenv("VETFLOW_SECURITY_PASSWORD_HASH"),
				Plain: os.Getenv("VETFLOW_SECURITY_PASSWORD"),
			},
		},
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	if sec := cfg.Secrets[vetting.RoleRetail]; sec.Hash == "" && sec.Plain == "" {
		log.Printf("retail password not configured; using built-in default")
		cfg.Secrets[vetting.RoleRetail] = access.Secret{Plain: defaultRetailPassword}
	}
	if sec := cfg.Secrets[vetting.RoleSecurity]; sec.Hash == "" && sec.Plain == "" {
		log.Printf("security password not configured; using built-in default")
		cfg.Secrets[vetting.RoleSecurity] = access.Secret{Plain: defaultSecurityPassword}
	}

	if ttl := os.Getenv("VETFLOW_SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("parse VETFLOW_SESSION_TTL: %v", err)
		}
		cfg.SessionTTL = d
	}
	return cfg
}
