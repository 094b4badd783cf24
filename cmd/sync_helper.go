package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/nakachan-ing/taskboard/internal/model"
	"github.com/nakachan-ing/taskboard/internal/util"
)

const remoteMetadataName = "metadata.json"

type syncPaths struct {
	dbFile        string
	dbName        string
	localMetadata string
	remoteDB      string
	remoteMeta    string
}

func newSyncPaths(config model.Config) syncPaths {
	dbName := filepath.Base(config.DBPath)
	return syncPaths{
		dbFile:        config.DBPath,
		dbName:        dbName,
		localMetadata: config.DBPath + ".sync.json",
		remoteDB:      path.Join(config.Sync.Prefix, dbName),
		remoteMeta:    path.Join(config.Sync.Prefix, remoteMetadataName),
	}
}

// SyncWithS3 pushes the database file to S3 or pulls it back, transferring
// it only when its recorded modification time differs.
func SyncWithS3(ctx context.Context, s3Client util.S3API, config model.Config, direction string) error {
	p := newSyncPaths(config)
	bucket := config.Sync.Bucket

	switch direction {
	case "pull":
		log.Println("🔄 Downloading metadata from S3...")
		remoteMetadata, err := util.DownloadMetadataFromS3(ctx, s3Client, bucket, p.remoteMeta)
		if err != nil {
			return fmt.Errorf("failed to download %s from S3: %w", p.remoteMeta, err)
		}

		localMetadata, err := util.LoadMetadata(p.localMetadata)
		if err != nil {
			return err
		}

		changed := util.DetectChanges(localMetadata, remoteMetadata, "s3")
		if !slices.Contains(changed, p.dbName) {
			log.Println("✅ No changes detected. Everything is up-to-date.")
			return nil
		}

		log.Println("🔄 Downloading the task database from S3...")
		if err := util.DownloadFromS3(ctx, s3Client, bucket, p.remoteDB, p.dbFile); err != nil {
			return err
		}

		// keep the local mtime equal to the pushed one so the next push is a no-op
		if remoteTime, err := time.Parse(time.RFC3339, remoteMetadata[p.dbName]); err == nil {
			if err := os.Chtimes(p.dbFile, remoteTime, remoteTime); err != nil {
				log.Printf("⚠️ Failed to set modification time on %s: %v", p.dbFile, err)
			}
		}

		if err := util.SaveMetadata(p.localMetadata, remoteMetadata); err != nil {
			return err
		}
		return nil

	case "push":
		log.Println("🔄 Generating metadata for push...")
		localMetadata, err := util.GenerateMetadata(p.dbFile)
		if err != nil {
			return err
		}
		if _, ok := localMetadata[p.dbName]; !ok {
			return fmt.Errorf("task database %s not found", p.dbFile)
		}

		remoteMetadata, err := util.DownloadMetadataFromS3(ctx, s3Client, bucket, p.remoteMeta)
		if err != nil {
			return fmt.Errorf("failed to download %s from S3: %w", p.remoteMeta, err)
		}

		changed := util.DetectChanges(localMetadata, remoteMetadata, "local")
		if !slices.Contains(changed, p.dbName) {
			log.Println("✅ No changes detected. Everything is up-to-date.")
			return nil
		}

		log.Println("🔄 Uploading the task database to S3...")
		if err := util.UploadToS3(ctx, s3Client, bucket, p.dbFile, p.remoteDB); err != nil {
			return err
		}

		log.Println("🔄 Uploading metadata to S3...")
		if err := util.UploadMetadataToS3(ctx, s3Client, bucket, p.remoteMeta, localMetadata); err != nil {
			return err
		}

		return util.SaveMetadata(p.localMetadata, localMetadata)
	}

	return fmt.Errorf("unknown sync direction: %s", direction)
}

// ShowSyncStatus prints which side holds the newer database.
func ShowSyncStatus(ctx context.Context, s3Client util.S3API, config model.Config) error {
	p := newSyncPaths(config)

	localMetadata, err := util.GenerateMetadata(p.dbFile)
	if err != nil {
		return err
	}
	remoteMetadata, err := util.DownloadMetadataFromS3(ctx, s3Client, config.Sync.Bucket, p.remoteMeta)
	if err != nil {
		return err
	}

	toPull := util.DetectChanges(localMetadata, remoteMetadata, "s3")
	toPush := util.DetectChanges(localMetadata, remoteMetadata, "local")

	log.Println("📌 Files to be updated from S3:")
	for _, file := range toPull {
		log.Println("   -", file)
	}
	log.Println("📌 Files to be uploaded to S3:")
	for _, file := range toPush {
		log.Println("   -", file)
	}

	return nil
}
