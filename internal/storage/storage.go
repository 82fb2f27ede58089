package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service archives leaderboard snapshots in remote object storage.
type Service interface {
	PutSnapshot(ctx context.Context, bucket, key string, body []byte) (string, error)
	ListSnapshots(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
