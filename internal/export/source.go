package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// SequenceFile is one file stored under a protein's directory.
type SequenceFile struct {
	Protein string
	Name    string
	Size    int64
	key     string
}

// SequenceSource is the sequence-file tree keyed by protein name. A protein
// without a directory has no files; that is not an error.
type SequenceSource interface {
	List(ctx context.Context, protein string) ([]SequenceFile, error)
	Open(ctx context.Context, file SequenceFile) (io.ReadCloser, error)
}

// validProteinDir rejects names that would address something other than a
// direct child of the tree root.
func validProteinDir(protein string) bool {
	if protein == "" || protein == "." || protein == ".." {
		return false
	}
	return !strings.ContainsAny(protein, `/\`)
}

// DirSource reads <Root>/<protein>/<file> from the local filesystem.
type DirSource struct {
	Root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

func (d *DirSource) List(_ context.Context, protein string) ([]SequenceFile, error) {
	if !validProteinDir(protein) {
		return nil, nil
	}
	dir := filepath.Join(d.Root, protein)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		// a plain file where a directory is expected counts as missing
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return nil, nil
		}
		return nil, fmt.Errorf("read sequence dir %s: %w", dir, err)
	}

	var files []SequenceFile
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		var info fs.FileInfo
		switch {
		case entry.Type().IsRegular():
			info, err = entry.Info()
		case entry.Type()&fs.ModeSymlink != 0:
			// follow the link; dangling links and links to directories are skipped
			info, err = os.Stat(path)
			if err == nil && !info.Mode().IsRegular() {
				continue
			}
		default:
			continue
		}
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, SequenceFile{
			Protein: protein,
			Name:    entry.Name(),
			Size:    info.Size(),
			key:     path,
		})
	}
	return files, nil
}

func (d *DirSource) Open(_ context.Context, file SequenceFile) (io.ReadCloser, error) {
	return os.Open(file.key)
}

// S3Source reads s3://<Bucket>/<Prefix>/<protein>/<file>.
type S3Source struct {
	svc    s3iface.S3API
	bucket string
	prefix string
}

func NewS3Source(svc s3iface.S3API, bucket, prefix string) *S3Source {
	return &S3Source{svc: svc, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Source) dirKey(protein string) string {
	if s.prefix == "" {
		return protein + "/"
	}
	return s.prefix + "/" + protein + "/"
}

func (s *S3Source) List(ctx context.Context, protein string) ([]SequenceFile, error) {
	if !validProteinDir(protein) {
		return nil, nil
	}
	dir := s.dirKey(protein)

	var files []SequenceFile
	err := s.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(dir),
		Delimiter: aws.String("/"),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			name := strings.TrimPrefix(key, dir)
			// skip the folder placeholder object some tools create
			if name == "" {
				continue
			}
			files = append(files, SequenceFile{
				Protein: protein,
				Name:    path.Base(name),
				Size:    aws.Int64Value(obj.Size),
				key:     key,
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, dir, err)
	}
	return files, nil
}

func (s *S3Source) Open(ctx context.Context, file SequenceFile) (io.ReadCloser, error) {
	output, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(file.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, file.key, err)
	}
	return output.Body, nil
}
