package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"codec8-svr/internal/pipeline"
)

// ioStateTTL: los estados de IO expiran si el equipo deja de reportar.
const ioStateTTL = 10 * time.Minute

// Client es el subconjunto de go-redis que usa Store; *redis.Client lo cumple.
type Client interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type Store struct {
	rdb Client
}

func New(rdb Client) *Store {
	return &Store{rdb: rdb}
}

// Dial conecta a Redis y verifica con PING.
func Dial(ctx context.Context, addr string, db int) (*Store, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return New(rdb), rdb, nil
}

func devKey(imei, field string) string { return "dev:" + imei + ":" + field }
func ioKey(imei, name string) string   { return "io:" + imei + ":" + name }

// SaveTracking guarda el último tracking del equipo como JSON.
func (s *Store) SaveTracking(ctx context.Context, tr *pipeline.TrackingObject) error {
	b, err := json.Marshal(tr)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, devKey(tr.IMEI, "last"), b, 0).Err(); err != nil {
		return fmt.Errorf("redis SET last %s: %w", tr.IMEI, err)
	}
	if tr.ICCID != "" {
		if err := s.rdb.Set(ctx, devKey(tr.IMEI, "iccid"), tr.ICCID, 0).Err(); err != nil {
			return fmt.Errorf("redis SET iccid %s: %w", tr.IMEI, err)
		}
	}
	return nil
}

func (s *Store) LastTracking(ctx context.Context, imei string) (*pipeline.TrackingObject, bool, error) {
	val, err := s.rdb.Get(ctx, devKey(imei, "last")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var tr pipeline.TrackingObject
	if err := json.Unmarshal(val, &tr); err != nil {
		return nil, false, fmt.Errorf("decode last tracking %s: %w", imei, err)
	}
	return &tr, true, nil
}

// ICCID devuelve el último ICCID conocido del equipo, o "" si nunca reportó.
func (s *Store) ICCID(ctx context.Context, imei string) (string, error) {
	val, err := s.rdb.Get(ctx, devKey(imei, "iccid")).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// SaveIOStates guarda cada IO con TTL y devuelve los nombres cuyo valor
// cambió respecto del estado anterior.
func (s *Store) SaveIOStates(ctx context.Context, imei string, perm map[string]uint64) ([]string, error) {
	if len(perm) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(perm))
	keys := make([]string, 0, len(perm))
	for name := range perm {
		names = append(names, name)
		keys = append(keys, ioKey(imei, name))
	}

	prev, err := s.GetStates(ctx, keys)
	if err != nil {
		return nil, err
	}

	var changed []string
	for i, name := range names {
		v := perm[name]
		if old, ok := prev[keys[i]]; !ok || old != v {
			changed = append(changed, name)
		}
		if err := s.rdb.Set(ctx, keys[i], v, ioStateTTL).Err(); err != nil {
			return changed, fmt.Errorf("redis SET %s: %w", keys[i], err)
		}
	}
	return changed, nil
}

func (s *Store) GetStates(ctx context.Context, keys []string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return out, err
	}
	for i, v := range vals {
		if v == nil {
			continue
		}
		str, _ := v.(string)
		n, err := strconv.ParseUint(str, 10, 64)
		if err != nil {
			continue
		}
		out[keys[i]] = n
	}
	return out, nil
}

// IncIntegrity cuenta por equipo los frames con problemas de integridad.
func (s *Store) IncIntegrity(ctx context.Context, imei, kind string) (int64, error) {
	return s.rdb.Incr(ctx, devKey(imei, kind)).Result()
}

func (s *Store) MarkConnected(ctx context.Context, imei, remote string, at time.Time) error {
	if err := s.rdb.Set(ctx, devKey(imei, "remote"), remote, 0).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, devKey(imei, "last_connect"), at.UTC().Format(time.RFC3339), 0).Err()
}
