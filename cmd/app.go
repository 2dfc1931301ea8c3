package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cuticulome/config"
	"cuticulome/internal/export"
	"cuticulome/internal/stats"
	"cuticulome/internal/store"
)

// app is everything loaded once at startup.
type app struct {
	db           *sql.DB
	snapshot     *store.Snapshot
	publications []stats.PublicationYear
	packager     *export.Packager
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// loadApp opens the record store and takes the snapshot while the
// publications file is read alongside it. A missing or malformed
// publications file leaves publications empty.
func loadApp(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*app, error) {
	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	a := &app{db: db}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snapshot, err := store.New(db, logger).Snapshot(gctx)
		if err != nil {
			return err
		}
		a.snapshot = snapshot
		return nil
	})
	g.Go(func() error {
		rows, err := stats.LoadPublications(cfg.PublicationsCSV)
		if err != nil {
			// only the publications chart depends on this file
			logger.Warn("publications file unreadable, chart disabled",
				zap.String("path", cfg.PublicationsCSV),
				zap.Error(err))
			return nil
		}
		if rows == nil {
			logger.Info("publications file not found, chart disabled", zap.String("path", cfg.PublicationsCSV))
		}
		a.publications = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		a.Close()
		return nil, err
	}

	source, err := sequenceSource(cfg.Sequences, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.packager = export.NewPackager(source, logger, export.WithFetchWorkers(cfg.FetchWorkers))
	return a, nil
}

func sequenceSource(cfg config.SequenceConfig, logger *zap.Logger) (export.SequenceSource, error) {
	if !cfg.UseS3() {
		logger.Info("sequence files from local tree", zap.String("root", cfg.Root))
		return export.NewDirSource(cfg.Root), nil
	}
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}
	logger.Info("sequence files from S3", zap.String("bucket", cfg.Bucket), zap.String("prefix", cfg.Prefix))
	return export.NewS3Source(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}
