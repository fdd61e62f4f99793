package repository

import (
	"context"
	"encoding/json"
	"errors"

	"stockmaster/internal/model"

	"github.com/redis/go-redis/v9"
)

type redisTablaRepo struct {
	rdb *redis.Client
	key string
}

// NewRedisTablaRepository stores the whole table as one JSON document
// (header row + data rows) under key. SET replaces it atomically.
func NewRedisTablaRepository(rdb *redis.Client, key string) TablaRepository {
	return &redisTablaRepo{rdb: rdb, key: key}
}

func (r *redisTablaRepo) ObtenerTabla(ctx context.Context) (*model.Tabla, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		t, _ := model.FromRows(nil)
		return t, nil
	}
	if err != nil {
		return nil, leerErr(err)
	}

	var rows [][]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, leerErr(err)
	}
	t, err := model.FromRows(rows)
	if err != nil {
		return nil, leerErr(err)
	}
	return t, nil
}

func (r *redisTablaRepo) ReemplazarTabla(ctx context.Context, t *model.Tabla) error {
	b, err := json.Marshal(t.ToRows())
	if err != nil {
		return escribirErr(err)
	}
	if err := r.rdb.Set(ctx, r.key, b, 0).Err(); err != nil {
		return escribirErr(err)
	}
	return nil
}

func (r *redisTablaRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
