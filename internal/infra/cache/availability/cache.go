package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Cache кеш вычисленных слотов в Redis.
//
// Слоты детерминированно пересчитываются из данных БД, поэтому кеш можно
// безопасно терять в любой момент. TTL короткий, а запись/перенос/отмена
// инвалидируют день точечно - устаревшая выдача живет не дольше одного TTL
// даже при пропущенной инвалидации.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log Logger
}

// New создает новый кеш доступности поверх Redis
func New(rdb *redis.Client, ttl time.Duration, log Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// Key собирает ключ кеша для комбинации параметров запроса слотов
// Все параметры, влияющие на выдачу, обязаны попасть в ключ
func Key(shopID int64, date time.Time, durationMinutes int, staffID *int64) string {
	staff := "any"
	if staffID != nil {
		staff = fmt.Sprintf("%d", *staffID)
	}
	return fmt.Sprintf("slots:%d:%s:%d:%s", shopID, date.Format(domain.DateFormat), durationMinutes, staff)
}

// dayPattern шаблон ключей всех комбинаций параметров одного дня
func dayPattern(shopID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%s:*", shopID, date.Format(domain.DateFormat))
}

// Get читает закешированные слоты
// Возвращает ErrCacheMiss, если ключа нет
func (c *Cache) Get(ctx context.Context, key string) ([]domain.AvailableSlot, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: get: %v", ErrCacheUnavailable, err)
	}

	var slots []domain.AvailableSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		// Битое значение трактуем как промах и даем перезаписать
		return nil, ErrCacheMiss
	}

	return slots, nil
}

// Set сохраняет слоты с настроенным TTL
func (c *Cache) Set(ctx context.Context, key string, slots []domain.AvailableSlot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrCacheUnavailable, err)
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCacheUnavailable, err)
	}

	return nil
}

// InvalidateDay удаляет все закешированные выдачи слотов барбершопа на день
// Вызывается после создания, переноса и отмены записи
func (c *Cache) InvalidateDay(ctx context.Context, shopID int64, date time.Time) {
	c.invalidatePattern(ctx, dayPattern(shopID, date))
}

// InvalidateShop удаляет закешированные выдачи барбершопа на все дни
// Вызывается после изменения расписания, конфигурации и блокировок:
// они влияют на доступность сразу многих дней
func (c *Cache) InvalidateShop(ctx context.Context, shopID int64) {
	c.invalidatePattern(ctx, fmt.Sprintf("slots:%d:*", shopID))
}

func (c *Cache) invalidatePattern(ctx context.Context, pattern string) {
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("availability cache: scan failed for pattern %s: %v", pattern, err)
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("availability cache: failed to invalidate %d keys for pattern %s: %v", len(keys), pattern, err)
	}
}
