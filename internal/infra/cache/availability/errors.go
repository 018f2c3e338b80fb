package availability

import "errors"

var (
	// ErrCacheMiss возвращается, когда ключ не найден в кеше
	ErrCacheMiss = errors.New("availability.cache: cache miss")

	// ErrCacheUnavailable возвращается при ошибках соединения с Redis
	ErrCacheUnavailable = errors.New("availability.cache: cache unavailable")
)
