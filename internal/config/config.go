package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Audit  AuditConfig  `yaml:"audit" mapstructure:"audit"`
	Source SourceConfig `yaml:"source" mapstructure:"source"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// AuditConfig configures audit runs and the rule registry resolver.
type AuditConfig struct {
	OutputDir        string   `yaml:"output_dir" mapstructure:"output_dir"`
	RuleDocRoots     []string `yaml:"rule_doc_roots" mapstructure:"rule_doc_roots"`
	CoverageMatrix   string   `yaml:"coverage_matrix" mapstructure:"coverage_matrix"`
	RulesDir         string   `yaml:"rules_dir" mapstructure:"rules_dir"`
	DashboardDir     string   `yaml:"dashboard_dir" mapstructure:"dashboard_dir"`
	ScopeTimeoutSecs int      `yaml:"scope_timeout_secs" mapstructure:"scope_timeout_secs"`
	Parallelism      int      `yaml:"parallelism" mapstructure:"parallelism"`
	MinimumBase      float64  `yaml:"minimum_base" mapstructure:"minimum_base"`
}

// SourceConfig configures the relational system-of-record reader.
type SourceConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	PageSize    int    `yaml:"page_size" mapstructure:"page_size"`
}

// StoreConfig configures the local run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("audit.output_dir", "audit_runs")
	v.SetDefault("audit.rules_dir", "rules")
	v.SetDefault("audit.dashboard_dir", "extracts")
	v.SetDefault("audit.scope_timeout_secs", 600)
	v.SetDefault("audit.parallelism", 4)
	v.SetDefault("audit.minimum_base", 10000)
	v.SetDefault("source.page_size", 500)
	v.SetDefault("store.path", "commission_audit.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// MaxCount is a warning threshold as written in the rules document. It
// accepts both a bare JSON number and a quoted string, but stays textual so
// a malformed threshold is reported as a governance failure instead of a
// load error.
type MaxCount string

func (m *MaxCount) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*m = MaxCount(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = MaxCount(s)
	return nil
}

// WarnPolicy declares governance metadata for one tolerated warning check.
type WarnPolicy struct {
	MaxCount MaxCount `json:"max_count,omitempty"`
	Expiry   string   `json:"expiry,omitempty"`
	Owner    string   `json:"owner,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// ColumnMap names the dashboard columns holding each logical field.
type ColumnMap struct {
	Name             string `json:"name"`
	BaseAmount       string `json:"base_amount"`
	CommissionAmount string `json:"commission_amount"`
	RatePercent      string `json:"rate_percent,omitempty"`
	RateBPS          string `json:"rate_bps,omitempty"`
	Date             string `json:"date,omitempty"`
	Currency         string `json:"currency,omitempty"`
	TierLabel        string `json:"tier_label,omitempty"`
	SpreadFee        string `json:"spread_fee,omitempty"`
}

// RulesDoc is one scope's rules configuration document.
type RulesDoc struct {
	Scope          string                `json:"scope"`
	VehicleCodes   []string              `json:"vehicle_codes"`
	Sheet          string                `json:"sheet,omitempty"`
	Table          string                `json:"table,omitempty"`
	Tolerance      float64               `json:"tolerance,omitempty"`
	RatePolicies   map[string]string     `json:"rate_policies,omitempty"`
	Aliases        map[string]string     `json:"aliases,omitempty"`
	Governance     map[string]WarnPolicy `json:"governance,omitempty"`
	Columns        ColumnMap             `json:"columns"`
	CheckSpreadFee bool                  `json:"check_spread_fee,omitempty"`
}

// LoadRules reads and validates a scope's rules document. A missing or
// malformed file stops the run: it means the audit itself is mis-set-up,
// not that the data is dirty.
func LoadRules(path string) (*RulesDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: rules file %s", path)
	}

	var doc RulesDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "config: parse rules file %s", path)
	}

	if doc.Scope == "" {
		return nil, eris.Errorf("config: rules file %s declares no scope", path)
	}
	// A scope that declares the spread-fee check must also map its column.
	// The mapping gap is a required-configuration error, never a silent zero.
	if doc.CheckSpreadFee && doc.Columns.SpreadFee == "" {
		return nil, eris.Errorf("config: rules file %s enables spread-fee check without a spread_fee column mapping", path)
	}

	return &doc, nil
}
