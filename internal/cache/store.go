package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goredis "github.com/redis/go-redis/v9"
)

// FileStore keeps a cache as one JSON object on disk.
type FileStore[V any] struct {
	Path string
}

func NewFileStore[V any](path string) *FileStore[V] {
	return &FileStore[V]{Path: path}
}

// Load returns an empty map when the file does not exist yet.
func (s *FileStore[V]) Load(_ context.Context) (map[string]V, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]V{}, nil
	}
	if err != nil {
		return nil, err
	}
	entries := map[string]V{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Path, err)
	}
	return entries, nil
}

// Save rewrites the file through a temporary file so a crash never leaves a truncated cache.
func (s *FileStore[V]) Save(_ context.Context, entries map[string]V) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// RedisStore keeps a cache in one Redis hash, field = query string, value = JSON result.
type RedisStore[V any] struct {
	Client goredis.Cmdable
	Key    string
}

func NewRedisStore[V any](client goredis.Cmdable, key string) *RedisStore[V] {
	return &RedisStore[V]{Client: client, Key: key}
}

func (s *RedisStore[V]) Load(ctx context.Context) (map[string]V, error) {
	raw, err := s.Client.HGetAll(ctx, s.Key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", s.Key, err)
	}
	entries := make(map[string]V, len(raw))
	for k, v := range raw {
		var val V
		if err := json.Unmarshal([]byte(v), &val); err != nil {
			return nil, fmt.Errorf("failed to decode redis field %q: %w", k, err)
		}
		entries[k] = val
	}
	return entries, nil
}

// Save replaces the hash in one transaction.
func (s *RedisStore[V]) Save(ctx context.Context, entries map[string]V) error {
	fields := make([]interface{}, 0, 2*len(entries))
	for k, v := range entries {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fields = append(fields, k, string(data))
	}

	_, err := s.Client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, s.Key)
		if len(fields) > 0 {
			p.HSet(ctx, s.Key, fields...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", s.Key, err)
	}
	return nil
}
