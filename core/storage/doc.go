// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a small interface for the
// operations the synchronizer needs: checking and creating the state bucket,
// and reading, writing and removing state objects. Both AWS S3 and self-hosted
// MinIO are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions in unit tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
