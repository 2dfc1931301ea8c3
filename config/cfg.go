package config

import (
	"fmt"
	"time"
)

// FormFields are the submission fields forwarded to the intake form, in form
// order. Each needs an entry_<field> identifier.
var FormFields = []string{
	"protein_name",
	"species",
	"protein_family",
	"function",
	"tissue",
	"protein_sequence",
	"cds_sequence",
	"reference",
	"doi",
	"submitter_name",
	"submitter_email",
}

type AppConfig struct {
	AppEnv          string         `json:"app_env"`
	Port            int            `json:"port"`
	Database        DatabaseConfig `json:"database"`
	Sequences       SequenceConfig `json:"sequences"`
	Relay           RelayConfig    `json:"-"`
	PublicationsCSV string         `json:"publications_csv"`
	ExportCacheTTL  time.Duration  `json:"export_cache_ttl"`
	FetchWorkers    int            `json:"fetch_workers"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Path     string `json:"path"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	Database string `json:"database"`
}

// DSN renders the connection string for Driver.
func (c DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", c.Username, c.Password, c.Host, c.Port, c.Database)
	}
	return c.Path
}

// Redacted is DSN with the password masked, for logging.
func (c DatabaseConfig) Redacted() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:***@tcp(%s:%d)/%s", c.Username, c.Host, c.Port, c.Database)
	}
	return c.Path
}

// SequenceConfig locates the per-protein FASTA tree. Bucket, when set, wins
// over Root.
type SequenceConfig struct {
	Root   string `json:"root"`
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
	Region string `json:"region"`

	// Static credentials; empty means the default AWS credential chain.
	AccessKeyID     string `json:"-"`
	SecretAccessKey string `json:"-"`
}

func (c SequenceConfig) UseS3() bool {
	return c.Bucket != ""
}

// RelayConfig is the intake form endpoint. The zero value is the disabled relay.
type RelayConfig struct {
	ActionURL string
	EntryIDs  map[string]string
	Timeout   time.Duration
}

// Enabled reports whether the action URL and every entry identifier are set.
func (c RelayConfig) Enabled() bool {
	if c.ActionURL == "" {
		return false
	}
	for _, field := range FormFields {
		if c.EntryIDs[field] == "" {
			return false
		}
	}
	return true
}
