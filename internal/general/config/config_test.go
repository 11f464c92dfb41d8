package config

import (
	"strings"
	"testing"
)

const sampleYAML = `
# local development settings
database:
  host: "db.internal"
  port: 5433
  user: corpride
  password: 'secret pw'
  database: corpride

rabbitmq:
  host: mq.internal
  port: 5672
  user: guest
  password: guest

services:
  ride_service: 3100
  admin_service: 3101

jwt:
  secret_key: "0123456789abcdef"
`

func TestParseYAML(t *testing.T) {
	var cfg Config
	if err := parseYAML(strings.NewReader(sampleYAML), &cfg); err != nil {
		t.Fatalf("parseYAML: %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.Password != "secret pw" {
		t.Errorf("quoted password = %q", cfg.Database.Password)
	}
	if cfg.Database.Name != "corpride" {
		t.Errorf("database name = %q", cfg.Database.Name)
	}
	if cfg.Services.RideServicePort != 3100 || cfg.Services.AdminServicePort != 3101 {
		t.Errorf("services = %+v", cfg.Services)
	}
	if cfg.JWT.SecretKey != "0123456789abcdef" {
		t.Errorf("secret = %q", cfg.JWT.SecretKey)
	}
}

func TestParseYAMLRejectsUnknownKeys(t *testing.T) {
	var cfg Config
	err := parseYAML(strings.NewReader("database:\n  hostt: x\n"), &cfg)
	if err == nil {
		t.Fatalf("unknown key accepted")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Services.RideServicePort != 3000 || cfg.Services.AdminServicePort != 3001 {
		t.Errorf("service port defaults = %+v", cfg.Services)
	}
	if cfg.JWT.SecretKey == "" {
		t.Errorf("jwt secret not generated")
	}
}

func TestValidateReportsMissingFields(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	err := cfg.validate()
	if err == nil {
		t.Fatalf("config with no credentials validated")
	}
	for _, want := range []string{"database.user", "database.password", "database.name"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}
