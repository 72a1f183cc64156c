// Package config loads zaphkiel settings from a YAML file and ZAPHKIEL_*
// environment variables.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/zaphkiel/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// DefaultDatabase is where normalized records go when nothing else is set.
const DefaultDatabase = "zaphkiel.db"

// Config holds all zaphkiel configuration.
type Config struct {
	Source       string       `yaml:"source" json:"source,omitempty"`
	Database     string       `yaml:"database" json:"database"`
	LogLevel     string       `yaml:"log_level" json:"log_level,omitempty"`
	Format       string       `yaml:"format" json:"format,omitempty"`
	Workers      int          `yaml:"workers" json:"workers,omitempty"`
	FriendTables []string     `yaml:"friend_tables" json:"friend_tables,omitempty"`
	Policy       PolicyConfig `yaml:"policy" json:"policy"`
}

// PolicyConfig holds converter policy overrides. Unset tolerance flags keep
// each converter's default.
type PolicyConfig struct {
	JoinLeave    ToleranceConfig `yaml:"join_leave" json:"join_leave"`
	Location     ToleranceConfig `yaml:"location" json:"location"`
	StrictRegion bool            `yaml:"strict_region" json:"strict_region,omitempty"`
}

// ToleranceConfig controls malformed location handling for one converter.
type ToleranceConfig struct {
	TolerateMalformedLocation *bool `yaml:"tolerate_malformed_location" json:"tolerate_malformed_location,omitempty"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() Config {
	return Config{
		Database: DefaultDatabase,
		LogLevel: "info",
		Format:   "text",
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// ZAPHKIEL_* environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML data over the defaults and validates it. Environment
// variables are not consulted.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// Validate checks the configuration against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Source = getenv("ZAPHKIEL_SOURCE", c.Source)
	c.Database = getenv("ZAPHKIEL_DATABASE", c.Database)
	c.LogLevel = getenv("ZAPHKIEL_LOG_LEVEL", c.LogLevel)
	c.Format = getenv("ZAPHKIEL_FORMAT", c.Format)
	c.Workers = getenvInt("ZAPHKIEL_WORKERS", c.Workers)
	c.Policy.StrictRegion = getenvBool("ZAPHKIEL_STRICT_REGION", c.Policy.StrictRegion)

	if v := os.Getenv("ZAPHKIEL_FRIEND_TABLES"); v != "" {
		c.FriendTables = nil
		for _, table := range strings.Split(v, ",") {
			if table = strings.TrimSpace(table); table != "" {
				c.FriendTables = append(c.FriendTables, table)
			}
		}
	}
}

// JoinLeavePolicy returns the join/leave converter policy.
func (c Config) JoinLeavePolicy() model.Policy {
	return c.Policy.JoinLeave.apply(model.DefaultJoinLeavePolicy(), c.Policy.StrictRegion)
}

// LocationPolicy returns the location converter policy.
func (c Config) LocationPolicy() model.Policy {
	return c.Policy.Location.apply(model.DefaultLocationPolicy(), c.Policy.StrictRegion)
}

// FriendTrustPolicy returns the friend snapshot converter policy.
func (c Config) FriendTrustPolicy() model.Policy {
	pol := model.DefaultFriendTrustPolicy()
	pol.StrictRegion = pol.StrictRegion || c.Policy.StrictRegion
	return pol
}

func (t ToleranceConfig) apply(pol model.Policy, strictRegion bool) model.Policy {
	if t.TolerateMalformedLocation != nil {
		pol.TolerateMalformedLocation = *t.TolerateMalformedLocation
	}
	pol.StrictRegion = pol.StrictRegion || strictRegion
	return pol
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
