// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so the rule snapshot archive can
// run against AWS S3, a self-hosted MinIO instance, or the testify mock in core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket / EnsureBucket: bucket provisioning.
//   - PutObject / GetObject: write and read snapshot documents.
//   - ListObjects: enumerate snapshots under an organization prefix.
//   - RemoveObject / RemoveObjects: delete one snapshot or prune many.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
