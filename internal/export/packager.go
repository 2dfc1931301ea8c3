// Package export assembles the downloadable zip of a filtered record set:
// metadata CSV, citation README, and each record's sequence files.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"cuticulome/internal/dispatcher"
	"cuticulome/internal/store"
)

const (
	ArchiveName  = "cuticulome_export.zip"
	MetadataDir  = "1_Metadata"
	MetadataPath = MetadataDir + "/metadata.csv"
	ReadmePath   = MetadataDir + "/README.txt"
)

// ErrEmptySelection means there is nothing to export. Callers surface it as a
// warning, not a failure.
var ErrEmptySelection = errors.New("no entries selected")

// Readme is written verbatim into every archive.
const Readme = "Thank you for using Cuticulome.db!\n\n" +
	"If you use data from this download in a publication, preprint, " +
	"presentation, or other scholarly work, we kindly ask that you cite " +
	"Cuticulome.db.\n\n" +
	"Citation information:\n" +
	"  Cuticulome.db – A database of function-defined arthropod cuticular proteins, 2026 Release.\n" +
	"  Authors: Alex Wardale & Cédric Finet\n" +
	"  URL: (add project URL or repository here)\n\n" +
	"This helps support continued development and maintenance of the database.\n\n" +
	"Thank you!"

const defaultFetchWorkers = 4

// Packager builds export archives. A nil source exports metadata only.
type Packager struct {
	source     SequenceSource
	logger     *zap.Logger
	scratchDir string
	workers    int
}

// Option configures a Packager.
type Option func(*Packager)

// WithScratchDir sets the parent of per-build scratch directories.
// Defaults to os.TempDir().
func WithScratchDir(dir string) Option {
	return func(p *Packager) { p.scratchDir = dir }
}

// WithFetchWorkers sets how many sequence files are downloaded at once.
func WithFetchWorkers(n int) Option {
	return func(p *Packager) {
		if n > 0 {
			p.workers = n
		}
	}
}

func NewPackager(source SequenceSource, logger *zap.Logger, opts ...Option) *Packager {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Packager{source: source, logger: logger, workers: defaultFetchWorkers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build returns the zip bytes for records. Files are staged in a scratch
// directory that is removed before Build returns, whatever the outcome.
func (p *Packager) Build(ctx context.Context, records []store.ProteinRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptySelection
	}

	tempDir, err := os.MkdirTemp(p.scratchDir, "cuticulome-export-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			p.logger.Warn("failed to remove export scratch dir", zap.String("dir", tempDir), zap.Error(err))
		}
	}()

	metadataDir := filepath.Join(tempDir, MetadataDir)
	if err := os.MkdirAll(metadataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create metadata dir: %w", err)
	}
	metadataCSV := filepath.Join(metadataDir, "metadata.csv")
	if err := writeMetadataFile(metadataCSV, records); err != nil {
		return nil, err
	}
	readmeTXT := filepath.Join(metadataDir, "README.txt")
	if err := os.WriteFile(readmeTXT, []byte(Readme), 0o600); err != nil {
		return nil, fmt.Errorf("write README: %w", err)
	}

	staged, err := p.stageSequences(ctx, filepath.Join(tempDir, "sequences"), records)
	if err != nil {
		return nil, err
	}
	zipPath := filepath.Join(tempDir, ArchiveName)
	if err := writeArchive(zipPath, metadataCSV, readmeTXT, staged); err != nil {
		return nil, err
	}

	zipBytes, err := os.ReadFile(zipPath)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	p.logger.Debug("export archive built",
		zap.Int("records", len(records)),
		zap.Int("sequence_files", len(staged)),
		zap.Int("bytes", len(zipBytes)))
	return zipBytes, nil
}

// stagedFile is a sequence file copied into the scratch directory.
type stagedFile struct {
	SequenceFile
	path string
}

// stageSequences lists every record's sequence files and downloads them into
// dir on the fetch workers. The result keeps record order, then listing order.
func (p *Packager) stageSequences(ctx context.Context, dir string, records []store.ProteinRecord) ([]stagedFile, error) {
	if p.source == nil {
		return nil, nil
	}
	var staged []stagedFile
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := p.source.List(ctx, record.Name)
		if err != nil {
			return nil, fmt.Errorf("list sequences for %s: %w", record.Name, err)
		}
		for _, file := range files {
			staged = append(staged, stagedFile{
				SequenceFile: file,
				path:         filepath.Join(dir, strconv.Itoa(len(staged))),
			})
		}
	}
	if len(staged) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create sequence dir: %w", err)
	}

	works := make([]dispatcher.Work, len(staged))
	for i, file := range staged {
		file := file
		works[i] = dispatcher.Work{
			Index: i,
			Label: file.Protein + "/" + file.Name,
			Do: func(ctx context.Context) error {
				return p.download(ctx, file)
			},
		}
	}
	if err := dispatcher.Run(ctx, works, p.workers, p.logger); err != nil {
		return nil, err
	}
	return staged, nil
}

func (p *Packager) download(ctx context.Context, file stagedFile) error {
	rc, err := p.source.Open(ctx, file.SequenceFile)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			p.logger.Warn("error closing sequence file", zap.String("file", file.Name), zap.Error(err))
		}
	}(rc)

	f, err := os.Create(file.path)
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		_ = f.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return f.Close()
}

func writeArchive(zipPath, metadataCSV, readmeTXT string, staged []stagedFile) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	if err := addLocalFile(zw, metadataCSV, MetadataPath); err != nil {
		return err
	}
	if err := addLocalFile(zw, readmeTXT, ReadmePath); err != nil {
		return err
	}
	for _, file := range staged {
		if err := addLocalFile(zw, file.path, file.Protein+"/"+file.Name); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

func addLocalFile(zw *zip.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = f.Close() }()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	return nil
}

func writeMetadataFile(path string, records []store.ProteinRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metadata: %w", err)
	}
	if err := WriteMetadata(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close metadata: %w", err)
	}
	return nil
}

// WriteMetadata writes the header row and one row per record, every column.
func WriteMetadata(w io.Writer, records []store.ProteinRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(store.Headers()); err != nil {
		return fmt.Errorf("write metadata header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("write metadata row %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush metadata: %w", err)
	}
	return nil
}

// ReadMetadata pulls metadata.csv back out of an archive, header row first.
func ReadMetadata(archive []byte) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != MetadataPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", MetadataPath, err)
		}
		defer func() { _ = rc.Close() }()
		rows, err := csv.NewReader(rc).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", MetadataPath, err)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%s not found in archive", MetadataPath)
}

// Entries lists archive member names in stored order.
func Entries(archive []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names, nil
}
