package sqlfile_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jensholdgaard/auction-datagen/internal/config"
	"github.com/jensholdgaard/auction-datagen/internal/dataset"
	"github.com/jensholdgaard/auction-datagen/internal/dataset/datasettest"
	"github.com/jensholdgaard/auction-datagen/internal/store/sqlfile"
)

func export(t *testing.T, ds *dataset.Dataset) map[string]string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "export")
	e, err := sqlfile.NewExporter(config.SQLFileConfig{Dir: dir, Database: "ArteCryptoAuctions"})
	require.NoError(t, err)
	require.NoError(t, e.Ping(context.Background()))
	require.NoError(t, e.Write(context.Background(), ds))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		b, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		out[entry.Name()] = string(b)
	}
	return out
}

func TestExporter_Files(t *testing.T) {
	files := export(t, datasettest.Small(7))
	require.Len(t, files, 3, "temporary files must not remain")

	for _, name := range []string{sqlfile.InitialDataFile, sqlfile.EntityActorsFile, sqlfile.ProcessSimulationFile} {
		content, ok := files[name]
		require.True(t, ok, name)
		assert.Contains(t, content, "USE ArteCryptoAuctions;\nGO\n")
	}

	initial := files[sqlfile.InitialDataFile]
	assert.Contains(t, initial, "SET IDENTITY_INSERT [ops].[Status] ON;")
	assert.Contains(t, initial, "-- Data for [nft].[NFTSettings]\nINSERT INTO")
	assert.NotContains(t, initial, "SET IDENTITY_INSERT [nft].[NFTSettings]")
	assert.Contains(t, initial, "(1, N'ArteCrypto Auctions', 0.1, 72, 5)")
}

func TestExporter_Literals(t *testing.T) {
	files := export(t, datasettest.Small(7))

	actors := files[sqlfile.EntityActorsFile]
	assert.Contains(t, actors, "INSERT INTO [core].[User] ([UserId], [FullName], [CreatedAtUtc]) VALUES\n")
	assert.Contains(t, actors, "(2, N'José O''Neil', N'2025-03-01 13:00:00.000')")
	assert.Contains(t, actors, "(2, 2, N'jose.oneil@example.com', 1, N'2025-03-01 13:00:00.000', NULL, N'ACTIVE')")
	assert.Contains(t, actors, "(2, 2, 8.00000001, 0.5, N'2025-03-05 16:00:00.000')")

	sim := files[sqlfile.ProcessSimulationFile]
	disable := strings.Index(sim, "DISABLE TRIGGER nft.tr_NFT_InsertFlow ON nft.NFT;")
	insert := strings.Index(sim, "INSERT INTO [nft].[NFT]")
	enable := strings.Index(sim, "ENABLE TRIGGER nft.tr_NFT_InsertFlow ON nft.NFT;")
	require.True(t, disable >= 0 && insert > disable && enable > insert, "NFT insert must be wrapped by the trigger toggle")

	assert.Contains(t, sim, "(2, 1, 2, N'2025-03-01 16:00:00.000', N'2025-03-04 16:00:00.000', 0.75, 0.75, NULL, N'CANCELLED')")
	assert.Contains(t, sim, "  (1, 1, 2, 2, N'DEBIT', N'2025-03-04 16:00:00.000'),\n  (2, 1, 1, 1.96, N'CREDIT', N'2025-03-04 16:00:00.000');")
	assert.Contains(t, sim, "SET IDENTITY_INSERT [audit].[EmailOutbox] OFF;\nGO\n")
}

func TestExporter_EmptyTables(t *testing.T) {
	ds := datasettest.Small(7)
	ds.Bids, ds.Reservations, ds.Ledger, ds.Outbox = nil, nil, nil, nil

	sim := export(t, ds)[sqlfile.ProcessSimulationFile]
	assert.Contains(t, sim, "-- No data generated for [auction].[Bid]\nGO\n")
	assert.Contains(t, sim, "-- No data generated for [finance].[Ledger]\nGO\n")
	assert.NotContains(t, sim, "[auction].[Bid] ON")
}

func TestExporter_Overwrites(t *testing.T) {
	dir := t.TempDir()
	e, err := sqlfile.NewExporter(config.SQLFileConfig{Dir: dir, Database: "db"})
	require.NoError(t, err)

	require.NoError(t, e.Write(context.Background(), datasettest.Small(7)))
	require.NoError(t, e.Write(context.Background(), datasettest.Small(8)))

	b, err := os.ReadFile(filepath.Join(dir, sqlfile.InitialDataFile))
	require.NoError(t, err)
	assert.Contains(t, string(b), "seed 8")
}

func TestNewExporter_RequiresDir(t *testing.T) {
	_, err := sqlfile.NewExporter(config.SQLFileConfig{})
	assert.Error(t, err)
}
