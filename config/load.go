package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSecretsFile  = "secrets.toml"
	defaultRelayTimeout = 10 * time.Second
)

// envBinding ties a viper key to its environment variable.
type envBinding struct {
	ConfigKey string
	EnvVar    string
	Validate  func(string) error
}

func getEnvBindings() []envBinding {
	bindings := []envBinding{
		{"app_env", "APP_ENV", nil},
		{"port", "PORT", validatePort},
		{"db.driver", "DB_DRIVER", validateDriver},
		{"db.path", "DB_PATH", nil},
		{"db.host", "DB_HOST", nil},
		{"db.port", "DB_PORT", validatePort},
		{"db.username", "DB_USERNAME", nil},
		{"db.password", "DB_PASSWORD", nil},
		{"db.database", "DB_DATABASE", nil},
		{"sequences.root", "FASTA_ROOT", nil},
		{"sequences.bucket", "FASTA_BUCKET", nil},
		{"sequences.prefix", "FASTA_PREFIX", nil},
		{"sequences.region", "AWS_REGION", nil},
		{"sequences.access_key_id", "AWS_ACCESS_KEY_ID", nil},
		{"sequences.secret_access_key", "AWS_SECRET_ACCESS_KEY", nil},
		{"publications_csv", "PUBLICATIONS_CSV", nil},
		{"relay.timeout_seconds", "RELAY_TIMEOUT_SECONDS", validatePositiveInt},
		{"export.cache_minutes", "EXPORT_CACHE_MINUTES", validateNonNegativeInt},
		{"export.fetch_workers", "EXPORT_FETCH_WORKERS", validatePositiveInt},
		{"google_form.action_url", "GOOGLE_FORM_ACTION_URL", nil},
	}
	for _, field := range FormFields {
		bindings = append(bindings, envBinding{
			ConfigKey: "google_form.entry_" + field,
			EnvVar:    "ENTRY_" + strings.ToUpper(field),
		})
	}
	return bindings
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "production")
	v.SetDefault("port", 8080)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "cuticulome.db")
	v.SetDefault("db.port", 3306)
	v.SetDefault("sequences.root", "fasta_files")
	v.SetDefault("publications_csv", "data/publications_by_year.csv")
	v.SetDefault("relay.timeout_seconds", int(defaultRelayTimeout/time.Second))
	v.SetDefault("export.cache_minutes", 10)
	v.SetDefault("export.fetch_workers", 4)
}

// Load resolves configuration once: defaults, then environment variables.
// The relay section comes from the [google_form] table of secretsPath when
// that table is complete, and from GOOGLE_FORM_ACTION_URL / ENTRY_* otherwise.
// An incomplete relay section is not an error; the relay is just disabled.
func Load(secretsPath string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	var problems []string
	for _, binding := range getEnvBindings() {
		if err := v.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			problems = append(problems, fmt.Sprintf("bind %s: %v", binding.EnvVar, err))
			continue
		}
		if binding.Validate != nil {
			if value := os.Getenv(binding.EnvVar); value != "" {
				if err := binding.Validate(value); err != nil {
					problems = append(problems, fmt.Sprintf("invalid %s value '%s': %v", binding.EnvVar, value, err))
				}
			}
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("environment variable issues:\n  - %s", strings.Join(problems, "\n  - "))
	}

	cfg := &AppConfig{
		AppEnv: v.GetString("app_env"),
		Port:   v.GetInt("port"),
		Database: DatabaseConfig{
			Driver:   v.GetString("db.driver"),
			Path:     v.GetString("db.path"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			Username: v.GetString("db.username"),
			Password: v.GetString("db.password"),
			Database: v.GetString("db.database"),
		},
		Sequences: SequenceConfig{
			Root:   v.GetString("sequences.root"),
			Bucket: v.GetString("sequences.bucket"),
			Prefix: v.GetString("sequences.prefix"),
			Region: v.GetString("sequences.region"),

			AccessKeyID:     v.GetString("sequences.access_key_id"),
			SecretAccessKey: v.GetString("sequences.secret_access_key"),
		},
		PublicationsCSV: v.GetString("publications_csv"),
		ExportCacheTTL:  time.Duration(v.GetInt("export.cache_minutes")) * time.Minute,
		FetchWorkers:    v.GetInt("export.fetch_workers"),
	}
	timeout := time.Duration(v.GetInt("relay.timeout_seconds")) * time.Second

	relay, err := relayFromSecrets(secretsPath)
	if err != nil {
		return nil, err
	}
	if relay == nil {
		relay = relayFromViper(v)
	}
	relay.Timeout = timeout
	cfg.Relay = *relay

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// relayFromSecrets returns nil when the secrets file is absent or its
// [google_form] table is missing a key.
func relayFromSecrets(path string) (*RelayConfig, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat secrets file: %w", err)
	}

	secrets := viper.New()
	secrets.SetConfigFile(path)
	secrets.SetConfigType("toml")
	if err := secrets.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}

	relay := relayFromViper(secrets)
	if !relay.Enabled() {
		return nil, nil
	}
	return relay, nil
}

func relayFromViper(v *viper.Viper) *RelayConfig {
	relay := &RelayConfig{
		ActionURL: strings.TrimSpace(v.GetString("google_form.action_url")),
		EntryIDs:  make(map[string]string, len(FormFields)),
	}
	for _, field := range FormFields {
		relay.EntryIDs[field] = strings.TrimSpace(v.GetString("google_form.entry_" + field))
	}
	return relay
}

// Validate checks cross-field requirements the env validators cannot see.
func (c *AppConfig) Validate() error {
	var problems []string
	if err := validateDriver(c.Database.Driver); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			problems = append(problems, "DB_PATH is required for sqlite")
		}
	case "mysql":
		required := []struct{ name, value string }{
			{"DB_HOST", c.Database.Host},
			{"DB_USERNAME", c.Database.Username},
			{"DB_DATABASE", c.Database.Database},
		}
		for _, r := range required {
			if r.value == "" {
				problems = append(problems, r.name+" is required for mysql")
			}
		}
	}
	if c.Sequences.UseS3() && c.Sequences.Region == "" {
		problems = append(problems, "AWS_REGION is required when FASTA_BUCKET is set")
	}
	if c.Relay.Timeout <= 0 {
		problems = append(problems, "relay timeout must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validatePort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validateDriver(value string) error {
	switch value {
	case "sqlite", "mysql":
		return nil
	}
	return fmt.Errorf("database driver must be sqlite or mysql, got %q", value)
}

func validatePositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

func validateNonNegativeInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}
