package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cuticulome/config"
	"cuticulome/internal/export"
	"cuticulome/internal/store"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cuticulome.db")

	db, err := store.Open(context.Background(), "sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE proteins (name TEXT PRIMARY KEY, species TEXT, phylum TEXT, subphylum TEXT, class TEXT, `order` TEXT, family TEXT, genus TEXT, protein_family TEXT, `function` TEXT, reference TEXT, doi TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO proteins (name, species, subphylum, `function`) VALUES ('Dme_CPR1', 'Drosophila melanogaster', 'Hexapoda', 'Wing'), ('Dpu_CP1', 'Daphnia pulex', 'Crustacea', 'Carapace')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	fasta := filepath.Join(dir, "fasta_files", "Dme_CPR1")
	require.NoError(t, os.MkdirAll(fasta, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fasta, "Dme_CPR1_protein.fasta"), []byte(">Dme_CPR1\nMK\n"), 0o644))

	pubs := filepath.Join(dir, "publications_by_year.csv")
	require.NoError(t, os.WriteFile(pubs, []byte("Year,Count\n2011,3\n2010,1\n"), 0o644))

	return &config.AppConfig{
		Database:        config.DatabaseConfig{Driver: "sqlite", Path: dbPath},
		Sequences:       config.SequenceConfig{Root: filepath.Join(dir, "fasta_files")},
		PublicationsCSV: pubs,
		FetchWorkers:    2,
	}
}

func TestLoadApp(t *testing.T) {
	cfg := testConfig(t)

	a, err := loadApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 2, a.snapshot.Len())
	require.Len(t, a.publications, 2)
	assert.Equal(t, 2010, a.publications[0].Year)

	archive, err := a.packager.Build(context.Background(), a.snapshot.Records())
	require.NoError(t, err)
	entries, err := export.Entries(archive)
	require.NoError(t, err)
	assert.Contains(t, entries, "Dme_CPR1/Dme_CPR1_protein.fasta")
}

func TestLoadApp_MissingPublications(t *testing.T) {
	cfg := testConfig(t)
	cfg.PublicationsCSV = filepath.Join(t.TempDir(), "absent.csv")

	a, err := loadApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.publications)
}

func TestLoadApp_MalformedPublications(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.PublicationsCSV, []byte("Year,Count\n2019,n/a\n"), 0o644))

	core, logs := observer.New(zap.WarnLevel)
	a, err := loadApp(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.publications)
	assert.Equal(t, 2, a.snapshot.Len())
	assert.Equal(t, 1, logs.FilterMessage("publications file unreadable, chart disabled").Len())
}

func TestLoadApp_MissingTable(t *testing.T) {
	cfg := &config.AppConfig{
		Database:        config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "empty.db")},
		PublicationsCSV: filepath.Join(t.TempDir(), "absent.csv"),
	}

	_, err := loadApp(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSequenceSource(t *testing.T) {
	src, err := sequenceSource(config.SequenceConfig{Root: "fasta_files"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &export.DirSource{}, src)

	src, err = sequenceSource(config.SequenceConfig{
		Bucket:          "cuticulome",
		Prefix:          "fasta_files",
		Region:          "eu-west-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &export.S3Source{}, src)
}
