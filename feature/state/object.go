package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"subdaap-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore stores versions as JSON objects named <prefix><index>.json.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore returns a store writing to bucket under prefix.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object name for a connection index.
func (s *ObjectStore) Key(index int) string {
	return fmt.Sprintf("%s%d.json", s.prefix, index)
}

func (s *ObjectStore) Load(ctx context.Context, index int) (Versions, error) {
	key := s.Key(index)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return Versions{}, nil
		}
		return Versions{}, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	// minio reports a missing key on first read, not on GetObject.
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return Versions{}, nil
		}
		return Versions{}, fmt.Errorf("read %s: %w", key, err)
	}

	var v Versions
	if err := json.Unmarshal(data, &v); err != nil {
		return Versions{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func (s *ObjectStore) Save(ctx context.Context, index int, v Versions) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	key := s.Key(index)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *ObjectStore) Reset(ctx context.Context, index int) error {
	key := s.Key(index)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
