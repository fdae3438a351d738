// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so finalized backup files can be mirrored to an S3
// compatible bucket and read back for restores. This abstraction supports both AWS S3
// and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket before the first upload.
//   - PutObject: uploads a backup file.
//   - GetObject: reads a backup for restore.
//
// Backups stored in a bucket are addressed as "s3://bucket/key" (see ParseURI).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
