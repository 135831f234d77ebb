package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jensholdgaard/auction-datagen/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "valid full config",
			yaml: `
simulation:
  seed: 7
  start_date: 2025-02-01T00:00:00Z
  end_date: 2025-06-01T00:00:00Z
  users: 50
  nfts: 100
  bids_per_auction_lambda: 12
  workers: 2
output:
  driver: "postgres"
  postgres:
    host: "db.example.com"
    port: 5433
    user: "gen"
    password: "secret"
    dbname: "auctions"
    sslmode: "require"
server:
  port: 9090
telemetry:
  service_name: "my-gen"
  otlp_endpoint: "localhost:4318"
notify:
  discord:
    webhook_id: "123"
    webhook_token: "abc"
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Simulation.Seed != 7 {
					t.Errorf("got seed %d, want %d", cfg.Simulation.Seed, 7)
				}
				if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); !cfg.Simulation.EndDate.Equal(want) {
					t.Errorf("got end date %v, want %v", cfg.Simulation.EndDate, want)
				}
				if cfg.Simulation.BidsPerAuctionLambda != 12 {
					t.Errorf("got lambda %v, want %v", cfg.Simulation.BidsPerAuctionLambda, 12)
				}
				if cfg.Output.Postgres.Port != 5433 {
					t.Errorf("got db port %d, want %d", cfg.Output.Postgres.Port, 5433)
				}
				if cfg.Server.Port != 9090 {
					t.Errorf("got server port %d, want %d", cfg.Server.Port, 9090)
				}
				if cfg.Telemetry.ServiceName != "my-gen" {
					t.Errorf("got service name %q, want %q", cfg.Telemetry.ServiceName, "my-gen")
				}
				if !cfg.Notify.Discord.Enabled() {
					t.Error("expected discord notifications to be enabled")
				}
			},
		},
		{
			name: "defaults applied",
			yaml: `
simulation:
  seed: 1
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Output.Driver != "sqlfile" {
					t.Errorf("got driver %q, want %q", cfg.Output.Driver, "sqlfile")
				}
				if cfg.Simulation.Users != 200 {
					t.Errorf("got users %d, want %d", cfg.Simulation.Users, 200)
				}
				if cfg.Simulation.BidsPerAuctionLambda != 20 {
					t.Errorf("got lambda %v, want %v", cfg.Simulation.BidsPerAuctionLambda, 20)
				}
				if cfg.Simulation.PlatformFeePct != 2 {
					t.Errorf("got fee %v, want %v", cfg.Simulation.PlatformFeePct, 2)
				}
				if cfg.Output.SQLFile.Database != "ArteCryptoAuctions" {
					t.Errorf("got database %q, want %q", cfg.Output.SQLFile.Database, "ArteCryptoAuctions")
				}
				if cfg.Notify.Discord.Enabled() {
					t.Error("expected discord notifications to be disabled")
				}
				if cfg.Telemetry.ServiceName != "auctiongen" {
					t.Errorf("got service name %q, want %q", cfg.Telemetry.ServiceName, "auctiongen")
				}
			},
		},
		{
			name:    "invalid yaml",
			yaml:    `{{{invalid`,
			wantErr: true,
		},
		{
			name: "sqlite driver accepted",
			yaml: `
output:
  driver: "sqlite"
  sqlite:
    path: "/tmp/x.db"
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Output.SQLite.Path != "/tmp/x.db" {
					t.Errorf("got path %q, want %q", cfg.Output.SQLite.Path, "/tmp/x.db")
				}
			},
		},
		{
			name:    "invalid driver rejected",
			yaml:    "output:\n  driver: \"mongodb\"\n",
			wantErr: true,
		},
		{
			name:    "negative lambda rejected",
			yaml:    "simulation:\n  bids_per_auction_lambda: -1\n",
			wantErr: true,
		},
		{
			name:    "fee of 100 percent rejected",
			yaml:    "simulation:\n  platform_fee_pct: 100\n",
			wantErr: true,
		},
		{
			name:    "precision out of range rejected",
			yaml:    "simulation:\n  money_precision: 19\n",
			wantErr: true,
		},
		{
			name:    "inverted window rejected",
			yaml:    "simulation:\n  start_date: 2025-10-01T00:00:00Z\n  end_date: 2025-01-01T00:00:00Z\n",
			wantErr: true,
		},
		{
			name:    "inverted balance range rejected",
			yaml:    "simulation:\n  balance_min: 5\n  balance_max: 1\n",
			wantErr: true,
		},
		{
			name:    "zero users rejected",
			yaml:    "simulation:\n  users: 0\n",
			wantErr: true,
		},
		{
			name:    "zero nfts rejected",
			yaml:    "simulation:\n  nfts: 0\n",
			wantErr: true,
		},
		{
			name:    "no nfts in auction rejected",
			yaml:    "simulation:\n  pct_nfts_in_auction: 0\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(writeConfig(t, tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && cfg != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AUCTIONGEN_SIMULATION_SEED", "99")
	t.Setenv("AUCTIONGEN_SIMULATION_WORKERS", "16")
	t.Setenv("AUCTIONGEN_OUTPUT_DRIVER", "postgres")
	t.Setenv("AUCTIONGEN_OUTPUT_POSTGRES_PASSWORD", "from-env")
	t.Setenv("AUCTIONGEN_NOTIFY_DISCORD_WEBHOOK_ID", "42")

	cfg, err := config.Load(writeConfig(t, "simulation:\n  seed: 1\n  users: 10\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Simulation.Seed != 99 {
		t.Errorf("got seed %d, want %d", cfg.Simulation.Seed, 99)
	}
	if cfg.Simulation.Users != 10 {
		t.Errorf("got users %d, want %d", cfg.Simulation.Users, 10)
	}
	if cfg.Simulation.Workers != 16 {
		t.Errorf("got workers %d, want %d", cfg.Simulation.Workers, 16)
	}
	if cfg.Output.Driver != "postgres" {
		t.Errorf("got driver %q, want %q", cfg.Output.Driver, "postgres")
	}
	if cfg.Output.Postgres.Password != "from-env" {
		t.Errorf("got password %q, want %q", cfg.Output.Postgres.Password, "from-env")
	}
	if cfg.Output.Postgres.Host != "localhost" {
		t.Errorf("got host %q, want default %q", cfg.Output.Postgres.Host, "localhost")
	}
	if cfg.Notify.Discord.WebhookID != "42" {
		t.Errorf("got webhook id %q, want %q", cfg.Notify.Discord.WebhookID, "42")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}
	want := "host=localhost port=5432 user=user password=pass dbname=testdb sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
