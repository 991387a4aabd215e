package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface guarda valores voláteis com TTL. Hoje serve às
// estatísticas do painel; mutações de equipamento e empréstimo invalidam
// a chave via Delete.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
