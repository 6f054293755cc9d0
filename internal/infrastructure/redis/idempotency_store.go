// Package redis guarda las claves Idempotency-Key de los endpoints que mueven stock.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
)

const keyPrefix = "panaderia:idem:"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore implementa ports.IdempotencyStore con SETNX + TTL.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// Connect abre el cliente desde una URL redis:// y verifica la conexión.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.MaxRetries = 3
	client := goredis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewIdempotencyStore construye el store; ttl es la vida de cada clave.
func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Acquire reserva la clave guardando solo la huella del cuerpo.
func (s *IdempotencyStore) Acquire(ctx context.Context, key, fingerprint string) (*ports.IdempotencyRecord, bool, error) {
	pending, err := json.Marshal(ports.IdempotencyRecord{Fingerprint: fingerprint})
	if err != nil {
		return nil, false, err
	}
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pending, s.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("reservar clave: %w", err)
	}
	if ok {
		return nil, true, nil
	}

	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		// expiró entre SETNX y GET; se trata como en curso y el cliente reintenta
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leer clave: %w", err)
	}
	var rec ports.IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("decodificar registro: %w", err)
	}
	return &rec, false, nil
}

// Complete reemplaza la reserva por la respuesta final, renovando el TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, rec ports.IdempotencyRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar respuesta: %w", err)
	}
	return nil
}

// Release borra la reserva.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("liberar clave: %w", err)
	}
	return nil
}
