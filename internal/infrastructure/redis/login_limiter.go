package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

const loginKeyPrefix = "facturacion:login_fail:"

var _ auth.LoginLimiter = (*LoginLimiter)(nil)

// counterStore subconjunto de comandos usados; *goredis.Client lo implementa.
type counterStore interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// LoginLimiter cuenta logins fallidos por usuario en una ventana fija.
// Al llegar a maxAttempts el usuario queda bloqueado hasta que la ventana expire.
type LoginLimiter struct {
	store       counterStore
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter construye el limitador.
func NewLoginLimiter(store counterStore, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{store: store, maxAttempts: maxAttempts, window: window}
}

// Allow devuelve domain.ErrTooManyAttempts si el usuario agotó sus intentos.
func (l *LoginLimiter) Allow(ctx context.Context, key string) error {
	raw, err := l.store.Get(ctx, loginKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return fmt.Errorf("login limiter get: %w", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("login limiter: contador inválido %q: %w", raw, err)
	}
	if n >= l.maxAttempts {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// Fail registra un intento fallido; el primero abre la ventana.
func (l *LoginLimiter) Fail(ctx context.Context, key string) error {
	k := loginKeyPrefix + key
	n, err := l.store.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.store.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return nil
}

// Reset borra el contador tras un login exitoso.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.store.Del(ctx, loginKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("login limiter del: %w", err)
	}
	return nil
}
