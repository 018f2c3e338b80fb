package schedule

import "errors"

var (
	// ErrShopNotFound возвращается, когда барбершоп не найден
	ErrShopNotFound = errors.New("shop not found")

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrTimeBlockNotFound возвращается, когда блокировка не найдена
	ErrTimeBlockNotFound = errors.New("time block not found")

	// ErrConfigNotFound возвращается, когда конфигурация бронирования не настроена
	ErrConfigNotFound = errors.New("booking config not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
