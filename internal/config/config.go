package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. AUCTIONGEN_SIMULATION_SEED.
const EnvPrefix = "AUCTIONGEN_"

// Config represents the application configuration.
type Config struct {
	Simulation     SimulationConfig     `yaml:"simulation" envPrefix:"SIMULATION_"`
	Output         OutputConfig         `yaml:"output" envPrefix:"OUTPUT_"`
	Server         ServerConfig         `yaml:"server" envPrefix:"SERVER_"`
	Telemetry      TelemetryConfig      `yaml:"telemetry" envPrefix:"TELEMETRY_"`
	LeaderElection LeaderElectionConfig `yaml:"leader_election" envPrefix:"LEADER_ELECTION_"`
	Notify         NotifyConfig         `yaml:"notify" envPrefix:"NOTIFY_"`
}

// SimulationConfig controls what gets generated.
type SimulationConfig struct {
	Seed      int64     `yaml:"seed" env:"SEED"`
	StartDate time.Time `yaml:"start_date" env:"START_DATE"`
	EndDate   time.Time `yaml:"end_date" env:"END_DATE"`
	// AsOf is the instant the dataset describes. Zero means EndDate.
	AsOf time.Time `yaml:"as_of" env:"AS_OF"`

	Users            int     `yaml:"users" env:"USERS"`
	NFTs             int     `yaml:"nfts" env:"NFTS"`
	PctNFTsInAuction float64 `yaml:"pct_nfts_in_auction" env:"PCT_NFTS_IN_AUCTION"`

	RoleProbs       map[string]float64 `yaml:"role_probs"`
	MultiRoleProb   float64            `yaml:"multi_role_prob"`
	RolesPerUserMin int                `yaml:"roles_per_user_min"`
	RolesPerUserMax int                `yaml:"roles_per_user_max"`

	EmailsPerUserMin   int      `yaml:"emails_per_user_min"`
	EmailsPerUserMax   int      `yaml:"emails_per_user_max"`
	PctPrimaryVerified float64  `yaml:"pct_primary_verified"`
	EmailDomains       []string `yaml:"email_domains" env:"EMAIL_DOMAINS" envSeparator:","`

	BalanceMin        float64  `yaml:"balance_min"`
	BalanceMax        float64  `yaml:"balance_max"`
	ReservedMin       float64  `yaml:"reserved_min"`
	ReservedMax       float64  `yaml:"reserved_max"`
	SuggestedPriceMin float64  `yaml:"suggested_price_min"`
	SuggestedPriceMax float64  `yaml:"suggested_price_max"`
	ContentTypes      []string `yaml:"content_types"`

	DefaultAuctionHours  int                `yaml:"default_auction_hours"`
	MinBidIncrementPct   float64            `yaml:"min_bid_increment_pct" env:"MIN_BID_INCREMENT_PCT"`
	BidsPerAuctionLambda float64            `yaml:"bids_per_auction_lambda" env:"BIDS_PER_AUCTION_LAMBDA"`
	ZeroBidInjectionProb float64            `yaml:"zero_bid_injection_prob"`
	MaxSellerRedraws     int                `yaml:"max_seller_redraws"`
	PlatformFeePct       float64            `yaml:"platform_fee_pct" env:"PLATFORM_FEE_PCT"`
	MoneyPrecision       int32              `yaml:"money_precision"`
	Workers              int                `yaml:"workers" env:"WORKERS"`
	AuctionStatusProbs   map[string]float64 `yaml:"auction_status_probs"`
}

// OutputConfig selects and configures the sink the dataset is written to.
type OutputConfig struct {
	Driver       string         `yaml:"driver" env:"DRIVER"` // "postgres", "sqlite" or "sqlfile"
	CreateSchema bool           `yaml:"create_schema" env:"CREATE_SCHEMA"`
	Postgres     PostgresConfig `yaml:"postgres" envPrefix:"POSTGRES_"`
	SQLite       SQLiteConfig   `yaml:"sqlite" envPrefix:"SQLITE_"`
	SQLFile      SQLFileConfig  `yaml:"sqlfile" envPrefix:"SQLFILE_"`
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"DBNAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the Postgres connection string.
func (d PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// SQLiteConfig holds the SQLite database location.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// SQLFileConfig controls the T-SQL script export.
type SQLFileConfig struct {
	Dir      string `yaml:"dir" env:"DIR"`
	Database string `yaml:"database" env:"DATABASE"`
}

// ServerConfig holds HTTP server settings. Port 0 disables the server.
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" env:"SERVICE_NAME"`
	ServiceVersion string `yaml:"service_version" env:"SERVICE_VERSION"`
	OTLPEndpoint   string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	Insecure       bool   `yaml:"insecure" env:"INSECURE"`
}

// LeaderElectionConfig holds Kubernetes leader election settings.
type LeaderElectionConfig struct {
	Enabled        bool          `yaml:"enabled" env:"ENABLED"`
	LeaseName      string        `yaml:"lease_name" env:"LEASE_NAME"`
	LeaseNamespace string        `yaml:"lease_namespace" env:"LEASE_NAMESPACE"`
	LeaseDuration  time.Duration `yaml:"lease_duration" env:"LEASE_DURATION"`
	RenewDeadline  time.Duration `yaml:"renew_deadline" env:"RENEW_DEADLINE"`
	RetryPeriod    time.Duration `yaml:"retry_period" env:"RETRY_PERIOD"`
}

// NotifyConfig holds run notification settings.
type NotifyConfig struct {
	Discord DiscordConfig `yaml:"discord" envPrefix:"DISCORD_"`
}

// DiscordConfig holds the webhook a run summary is posted to. An empty
// WebhookID disables it.
type DiscordConfig struct {
	WebhookID    string `yaml:"webhook_id" env:"WEBHOOK_ID"`
	WebhookToken string `yaml:"webhook_token" env:"WEBHOOK_TOKEN"`
	Username     string `yaml:"username" env:"USERNAME"`
}

// Enabled reports whether a webhook is configured.
func (d DiscordConfig) Enabled() bool { return d.WebhookID != "" }

// Default returns the configuration used for every field the file and the
// environment leave unset.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Seed:             42,
			StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:          time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			Users:            200,
			NFTs:             600,
			PctNFTsInAuction: 0.95,
			RoleProbs: map[string]float64{
				"ADMIN": 0.05, "ARTIST": 0.25, "CURATOR": 0.15, "BIDDER": 0.85,
			},
			MultiRoleProb:        0.35,
			RolesPerUserMin:      1,
			RolesPerUserMax:      3,
			EmailsPerUserMin:     1,
			EmailsPerUserMax:     2,
			PctPrimaryVerified:   0.98,
			EmailDomains:         []string{"gmail.com", "outlook.com", "yahoo.com", "uni.edu.gt"},
			BalanceMin:           0,
			BalanceMax:           20,
			ReservedMin:          0,
			ReservedMax:          3,
			SuggestedPriceMin:    0.05,
			SuggestedPriceMax:    5,
			ContentTypes:         []string{"image/png", "image/jpeg"},
			DefaultAuctionHours:  72,
			MinBidIncrementPct:   5,
			BidsPerAuctionLambda: 20,
			ZeroBidInjectionProb: 0.05,
			MaxSellerRedraws:     10,
			PlatformFeePct:       2,
			MoneyPrecision:       8,
			Workers:              4,
			AuctionStatusProbs: map[string]float64{
				"ACTIVE": 0.10, "COMPLETED": 0.80, "CANCELLED": 0.10,
			},
		},
		Output: OutputConfig{
			Driver:       "sqlfile",
			CreateSchema: true,
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
			SQLite: SQLiteConfig{
				Path: "auctions.db",
			},
			SQLFile: SQLFileConfig{
				Dir:      "sql_data_export",
				Database: "ArteCryptoAuctions",
			},
		},
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 15 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "auctiongen",
			ServiceVersion: "0.1.0",
		},
		LeaderElection: LeaderElectionConfig{
			Enabled:        false,
			LeaseName:      "auctiongen-leader",
			LeaseNamespace: "default",
			LeaseDuration:  15 * time.Second,
			RenewDeadline:  10 * time.Second,
			RetryPeriod:    2 * time.Second,
		},
		Notify: NotifyConfig{
			Discord: DiscordConfig{Username: "auctiongen"},
		},
	}
}

// Load reads a YAML configuration file from the given path, applies
// AUCTIONGEN_ environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	var errs []error

	switch c.Output.Driver {
	case "postgres", "sqlite", "sqlfile":
		// valid
	default:
		errs = append(errs, fmt.Errorf("unsupported output driver %q: must be \"postgres\", \"sqlite\" or \"sqlfile\"", c.Output.Driver))
	}

	s := c.Simulation
	if !s.StartDate.Before(s.EndDate) {
		errs = append(errs, fmt.Errorf("start_date %s must be before end_date %s", s.StartDate.Format(time.DateOnly), s.EndDate.Format(time.DateOnly)))
	}
	if s.Users <= 0 {
		errs = append(errs, errors.New("users must be positive"))
	}
	if s.NFTs <= 0 {
		errs = append(errs, errors.New("nfts must be positive"))
	}
	if s.PctNFTsInAuction <= 0 {
		errs = append(errs, errors.New("pct_nfts_in_auction must be positive"))
	}
	if s.BidsPerAuctionLambda < 0 {
		errs = append(errs, errors.New("bids_per_auction_lambda must not be negative"))
	}
	if s.PlatformFeePct < 0 || s.PlatformFeePct >= 100 {
		errs = append(errs, fmt.Errorf("platform_fee_pct %v outside [0, 100)", s.PlatformFeePct))
	}
	if s.MinBidIncrementPct < 0 {
		errs = append(errs, errors.New("min_bid_increment_pct must not be negative"))
	}
	if s.MoneyPrecision < 0 || s.MoneyPrecision > 18 {
		errs = append(errs, fmt.Errorf("money_precision %d outside [0, 18]", s.MoneyPrecision))
	}
	if s.DefaultAuctionHours <= 0 {
		errs = append(errs, errors.New("default_auction_hours must be positive"))
	}
	if s.MaxSellerRedraws < 0 {
		errs = append(errs, errors.New("max_seller_redraws must not be negative"))
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"pct_nfts_in_auction", s.PctNFTsInAuction},
		{"multi_role_prob", s.MultiRoleProb},
		{"pct_primary_verified", s.PctPrimaryVerified},
		{"zero_bid_injection_prob", s.ZeroBidInjectionProb},
	} {
		if p.value < 0 || p.value > 1 {
			errs = append(errs, fmt.Errorf("%s %v outside [0, 1]", p.name, p.value))
		}
	}
	for _, r := range []struct {
		name     string
		min, max float64
	}{
		{"roles_per_user", float64(s.RolesPerUserMin), float64(s.RolesPerUserMax)},
		{"emails_per_user", float64(s.EmailsPerUserMin), float64(s.EmailsPerUserMax)},
		{"balance", s.BalanceMin, s.BalanceMax},
		{"reserved", s.ReservedMin, s.ReservedMax},
		{"suggested_price", s.SuggestedPriceMin, s.SuggestedPriceMax},
	} {
		if r.min < 0 || r.min > r.max {
			errs = append(errs, fmt.Errorf("%s range [%v, %v] is invalid", r.name, r.min, r.max))
		}
	}
	if s.EmailsPerUserMin < 1 {
		errs = append(errs, errors.New("emails_per_user_min must be at least 1"))
	}
	if len(s.RoleProbs) == 0 {
		errs = append(errs, errors.New("role_probs must not be empty"))
	}

	return errors.Join(errs...)
}
