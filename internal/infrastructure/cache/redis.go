package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/pkg/config"
	"github.com/jhoicas/seller-finance-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Claves en Redis.
const (
	keySyncVersion = "user:%s:costs:sync_version"
	keySettings    = "user:%s:settings:%s"
)

// RedisStore contador de versión (INCR) y caché de configuraciones en Redis, con degradación a
// memoria: tras maxFailures errores seguidos se deja de consultar Redis hasta el próximo chequeo.
type RedisStore struct {
	client   *redis.Client
	fallback *MemoryStore
	ttl      time.Duration
	log      *logger.Logger

	mu            sync.Mutex
	pending       map[string]struct{} // usuarios con invalidación sin aplicar en Redis
	healthy       bool
	failureCount  int
	lastCheck     time.Time
	maxFailures   int
	checkInterval time.Duration
}

// NewRedisStore conecta a Redis. Si el ping inicial falla el store arranca degradado, no con error.
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration, log *logger.Logger) *RedisStore {
	if log == nil {
		log = logger.Nop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	rs := &RedisStore{
		client:        client,
		fallback:      NewMemoryStore(ttl),
		pending:       make(map[string]struct{}),
		ttl:           ttl,
		log:           log.Named("cache"),
		maxFailures:   3,
		checkInterval: 30 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		rs.log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis no disponible; usando memoria")
		rs.lastCheck = time.Now()
		return rs
	}
	rs.healthy = true
	rs.lastCheck = time.Now()
	rs.log.Info().Str("addr", cfg.Addr).Msg("redis conectado")
	return rs
}

// Close cierra el cliente.
func (r *RedisStore) Close() error { return r.client.Close() }

// IsHealthy indica si Redis está en uso.
func (r *RedisStore) IsHealthy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.healthy
}

func (r *RedisStore) available(ctx context.Context) bool {
	r.mu.Lock()
	healthy := r.healthy
	shouldCheck := !healthy && time.Since(r.lastCheck) >= r.checkInterval
	if shouldCheck {
		r.lastCheck = time.Now()
	}
	r.mu.Unlock()
	if healthy {
		return true
	}
	if !shouldCheck {
		return false
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		return false
	}
	r.recordSuccess(ctx)
	return true
}

func (r *RedisStore) recordFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failureCount++
	if r.failureCount >= r.maxFailures && r.healthy {
		r.healthy = false
		r.lastCheck = time.Now()
		r.log.Warn().Err(err).Int("failures", r.failureCount).Msg("redis marcado como no disponible")
	}
}

func (r *RedisStore) recordSuccess(ctx context.Context) {
	r.mu.Lock()
	if !r.healthy {
		r.log.Info().Msg("redis recuperado")
	}
	r.healthy = true
	r.failureCount = 0
	r.mu.Unlock()
	r.flushPending(ctx)
}

// flushPending reaplica las invalidaciones que no llegaron a Redis durante la caída.
func (r *RedisStore) flushPending(ctx context.Context) {
	r.mu.Lock()
	users := make([]string, 0, len(r.pending))
	for u := range r.pending {
		users = append(users, u)
	}
	clear(r.pending)
	r.mu.Unlock()

	for _, u := range users {
		if err := r.client.Del(ctx, settingsKeys(u)...).Err(); err != nil {
			r.markPending(u)
			r.log.Warn().Err(err).Str("user_id", u).Msg("no se pudo reaplicar invalidación")
		}
	}
}

func (r *RedisStore) markPending(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[userID] = struct{}{}
}

func settingsKeys(userID string) []string {
	return []string{
		fmt.Sprintf(keySettings, userID, entity.MarketplaceShopee),
		fmt.Sprintf(keySettings, userID, entity.MarketplaceTikTok),
	}
}

// raise lleva el contador de Redis hasta floor+1 cuando quedó atrás de las versiones
// entregadas desde memoria; la versión nunca se repite ni retrocede.
func (r *RedisStore) raise(ctx context.Context, key string, v, floor int64) (int64, error) {
	if v > floor {
		return v, nil
	}
	return r.client.IncrBy(ctx, key, floor+1-v).Result()
}

// Current lee la versión; con Redis caído responde la copia local. Nunca devuelve menos que la
// última versión entregada por este proceso.
func (r *RedisStore) Current(ctx context.Context, userID string) (int64, error) {
	if !r.available(ctx) {
		return r.fallback.Current(ctx, userID)
	}
	local, _ := r.fallback.Current(ctx, userID)
	key := fmt.Sprintf(keySyncVersion, userID)
	v, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		err = nil
	}
	if err != nil {
		r.recordFailure(err)
		return local, nil
	}
	r.recordSuccess(ctx)
	if v < local {
		// Redis volvió con un contador anterior a la caída
		if _, err := r.client.IncrBy(ctx, key, local-v).Result(); err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo nivelar versión en redis")
		}
		return local, nil
	}
	r.fallback.observe(userID, v)
	return v, nil
}

// Bump incrementa la versión con INCR, saltando las versiones ya entregadas desde memoria.
func (r *RedisStore) Bump(ctx context.Context, userID string) (int64, error) {
	if !r.available(ctx) {
		return r.fallback.Bump(ctx, userID)
	}
	local, _ := r.fallback.Current(ctx, userID)
	key := fmt.Sprintf(keySyncVersion, userID)
	v, err := r.client.Incr(ctx, key).Result()
	if err == nil {
		v, err = r.raise(ctx, key, v, local)
	}
	if err != nil {
		r.recordFailure(err)
		return r.fallback.Bump(ctx, userID)
	}
	r.recordSuccess(ctx)
	r.fallback.observe(userID, v)
	return v, nil
}

// GetDefault lee la configuración serializada; cualquier fallo es un miss.
func (r *RedisStore) GetDefault(ctx context.Context, userID, marketplace string) (*entity.Settings, bool) {
	if !r.available(ctx) {
		return r.fallback.GetDefault(ctx, userID, marketplace)
	}
	r.flushPending(ctx)
	raw, err := r.client.Get(ctx, fmt.Sprintf(keySettings, userID, marketplace)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.recordSuccess(ctx)
		return nil, false
	}
	if err != nil {
		r.recordFailure(err)
		return nil, false
	}
	var s entity.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("configuración en caché corrupta")
		return nil, false
	}
	r.recordSuccess(ctx)
	return &s, true
}

// SetDefault guarda la configuración con TTL.
func (r *RedisStore) SetDefault(ctx context.Context, userID, marketplace string, s *entity.Settings) {
	if s == nil || r.ttl <= 0 {
		return
	}
	if !r.available(ctx) {
		r.fallback.SetDefault(ctx, userID, marketplace, s)
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, fmt.Sprintf(keySettings, userID, marketplace), raw, r.ttl).Err(); err != nil {
		r.recordFailure(err)
		return
	}
	r.recordSuccess(ctx)
}

// Invalidate borra las configuraciones en caché del usuario (Redis y memoria). Con Redis caído
// la invalidación queda pendiente y se aplica al recuperar la conexión.
func (r *RedisStore) Invalidate(ctx context.Context, userID string) {
	r.fallback.Invalidate(ctx, userID)
	if !r.available(ctx) {
		r.markPending(userID)
		return
	}
	if err := r.client.Del(ctx, settingsKeys(userID)...).Err(); err != nil {
		r.recordFailure(err)
		r.markPending(userID)
		r.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo invalidar configuración en caché")
		return
	}
	r.recordSuccess(ctx)
}
