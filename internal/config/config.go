package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Templates TemplatesConfig `koanf:"templates"`
	Renderer  RendererConfig  `koanf:"renderer"`
	Audit     AuditConfig     `koanf:"audit"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type StorageConfig struct {
	Bucket         string        `koanf:"bucket"`
	Region         string        `koanf:"region"`
	AccessKey      string        `koanf:"access_key"`
	SecretKey      string        `koanf:"secret_key"`
	Endpoint       string        `koanf:"endpoint"`        // Internal URL for operations
	PublicEndpoint string        `koanf:"public_endpoint"` // Public URL for presigned links
	LinkExpiry     time.Duration `koanf:"link_expiry"`
}

type TemplatesConfig struct {
	Path string `koanf:"path"`
	// Meta declares per-template metadata, keyed by template name without
	// the .html extension. Dots in config keys collide with the koanf
	// path delimiter.
	Meta map[string]TemplateMetaConfig `koanf:"meta"`
}

type TemplateMetaConfig struct {
	// Associated lists companion templates rendered with the same data and
	// appended to the artifact as numbered attachments.
	Associated []string `koanf:"associated"`
	// IDTeamChecklist marks templates that consume the derived
	// interdisciplinary-team review checklist.
	IDTeamChecklist bool `koanf:"id_team_checklist"`
}

type RendererConfig struct {
	PoolSize int `koanf:"pool_size"`
}

type AuditConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// s3EnvVars maps the conventional S3 environment variables onto config keys.
// These take precedence over config.yaml but not over CONNECTOR_* overrides.
var s3EnvVars = map[string]string{
	"S3_BUCKET":              "storage.bucket",
	"S3_REGION":              "storage.region",
	"AWS_ACCESS_KEY_ID":      "storage.access_key",
	"AWS_SECRET_ACCESS_KEY":  "storage.secret_key",
	"S3_ENDPOINT_URL":        "storage.endpoint",
	"S3_PUBLIC_ENDPOINT_URL": "storage.public_endpoint",
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load from config.yaml file first
	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Cloud Foundry injects storage credentials via VCAP_SERVICES. They fill
	// in whatever config.yaml left unset; explicit env vars still win.
	applyVCAPServices(k, os.Getenv("VCAP_SERVICES"))

	for name, key := range s3EnvVars {
		if v := os.Getenv(name); v != "" {
			k.Set(key, v)
		}
	}
	if v := os.Getenv("SIGNED_LINK_EXPIRATION"); v != "" {
		k.Set("storage.link_expiry", v+"s")
	}

	// CONNECTOR_* env vars override everything
	if err := k.Load(env.Provider("CONNECTOR_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "CONNECTOR_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("server.request_timeout") {
		k.Set("server.request_timeout", "120s")
	}
	if !k.Exists("storage.link_expiry") {
		k.Set("storage.link_expiry", "3600s")
	}
	if !k.Exists("templates.path") {
		k.Set("templates.path", "templates")
	}
	if !k.Exists("renderer.pool_size") {
		k.Set("renderer.pool_size", 2)
	}
	if !k.Exists("audit.path") {
		k.Set("audit.path", "connector-audit.db")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Templates.Meta) == 0 {
		cfg.Templates.Meta = map[string]TemplateMetaConfig{
			"ce": {
				Associated:      []string{"id-team-checklist.html"},
				IDTeamChecklist: true,
			},
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate reports every missing required setting at once so a
// misconfigured deployment fails with a complete list.
func (c *Config) validate() error {
	var missing []string
	if c.Storage.Bucket == "" {
		missing = append(missing, "storage.bucket (S3_BUCKET)")
	}
	if c.Storage.Region == "" {
		missing = append(missing, "storage.region (S3_REGION)")
	}
	if c.Storage.AccessKey == "" {
		missing = append(missing, "storage.access_key (AWS_ACCESS_KEY_ID)")
	}
	if c.Storage.SecretKey == "" {
		missing = append(missing, "storage.secret_key (AWS_SECRET_ACCESS_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// vcapService is one bound service instance in a VCAP_SERVICES document.
type vcapService struct {
	Name        string `json:"name"`
	Credentials struct {
		Bucket          string `json:"bucket"`
		Region          string `json:"region"`
		AccessKeyID     string `json:"access_key_id"`
		SecretAccessKey string `json:"secret_access_key"`
		Endpoint        string `json:"endpoint"`
	} `json:"credentials"`
}

// applyVCAPServices fills storage settings from the service instance named
// "artifacts", if one is bound. Malformed JSON is ignored.
func applyVCAPServices(k *koanf.Koanf, raw string) {
	if raw == "" {
		return
	}
	var services map[string][]vcapService
	if err := json.Unmarshal([]byte(raw), &services); err != nil {
		return
	}
	for _, instances := range services {
		for _, inst := range instances {
			if inst.Name != "artifacts" {
				continue
			}
			creds := inst.Credentials
			setIfAbsent(k, "storage.bucket", creds.Bucket)
			setIfAbsent(k, "storage.region", creds.Region)
			setIfAbsent(k, "storage.access_key", creds.AccessKeyID)
			setIfAbsent(k, "storage.secret_key", creds.SecretAccessKey)
			setIfAbsent(k, "storage.endpoint", creds.Endpoint)
			return
		}
	}
}

func setIfAbsent(k *koanf.Koanf, key, value string) {
	if value != "" && !k.Exists(key) {
		k.Set(key, value)
	}
}
