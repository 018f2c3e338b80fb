package get_available_slots

import "errors"

var (
	// ErrShopNotFound возвращается, когда барбершоп не найден
	ErrShopNotFound = errors.New("shop not found")

	// ErrServiceNotFound возвращается, когда услуга из пакета не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrMisconfiguredShop возвращается при некорректной конфигурации барбершопа
	// (битое расписание, неизвестная таймзона). Это НЕ "нет свободных слотов":
	// барбершоп сломан и требует внимания владельца
	ErrMisconfiguredShop = errors.New("shop is misconfigured")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
