package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL      = 10 * time.Second
	defaultWaitTimeout  = 5 * time.Second
	defaultPollInterval = 20 * time.Millisecond
	releaseTimeout      = time.Second
	keyPrefix           = "reservation:lock:"
)

// Удаляет ключ, только если он все еще принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConfig параметры подключения и блокировок
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	TTL          time.Duration
	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// NewRedisClient создает клиент Redis на основе конфигурации
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrLockBackend, err)
	}
	return nil
}

// RedisLocker распределенная блокировка SET NX PX с токеном владельца
// TTL страхует от вечной блокировки при падении процесса
type RedisLocker struct {
	client       *redis.Client
	ttl          time.Duration
	waitTimeout  time.Duration
	pollInterval time.Duration
	logger       Logger
}

// NewRedisLocker создает блокировщик поверх клиента Redis
func NewRedisLocker(client *redis.Client, cfg RedisConfig, logger Logger) *RedisLocker {
	l := &RedisLocker{
		client:       client,
		ttl:          cfg.TTL,
		waitTimeout:  cfg.WaitTimeout,
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}
	if l.ttl <= 0 {
		l.ttl = defaultLockTTL
	}
	if l.waitTimeout <= 0 {
		l.waitTimeout = defaultWaitTimeout
	}
	if l.pollInterval <= 0 {
		l.pollInterval = defaultPollInterval
	}
	return l
}

// Acquire захватывает блокировку key, повторяя попытки каждые pollInterval
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("%w: Acquire - key=%s: %v", ErrLockBackend, key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: key=%s after %s", ErrLockTimeout, key, l.waitTimeout)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// Контекст запроса к этому моменту может быть уже отменен
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			deleted, err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Int()
			if err != nil {
				l.logger.Error("RedisLocker: failed to release %s: %v", redisKey, err)
				return
			}
			if deleted == 0 {
				l.logger.Warn("RedisLocker: lock %s expired before release", redisKey)
			}
		})
	}
}
