package ports

import "context"

// IdempotencyRecord estado guardado para una clave Idempotency-Key.
type IdempotencyRecord struct {
	Fingerprint string `json:"fingerprint"` // SHA-256 del cuerpo de la petición
	Completed   bool   `json:"completed"`
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// IdempotencyStore reserva claves y guarda la respuesta de la primera ejecución.
type IdempotencyStore interface {
	// Acquire reserva la clave. Si ya existía devuelve el registro previo y acquired=false.
	Acquire(ctx context.Context, key, fingerprint string) (existing *IdempotencyRecord, acquired bool, err error)
	// Complete guarda la respuesta para repetirla ante reintentos.
	Complete(ctx context.Context, key string, rec IdempotencyRecord) error
	// Release libera una reserva cuya ejecución falló, para permitir reintentar.
	Release(ctx context.Context, key string) error
}
