package create_appointment

import "errors"

var (
	// ErrShopNotFound возвращается, когда барбершоп не найден
	ErrShopNotFound = errors.New("create_appointment: shop not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт записи
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrShopClosed возвращается, когда барбершоп закрыт в указанную дату
	ErrShopClosed = errors.New("create_appointment: shop is closed on this date")

	// ErrTooLateToBook возвращается, когда запись нарушает минимальный интервал записи
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда выбранный слот недоступен
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrStaffNotAvailable возвращается, когда выбранный мастер недоступен в этом слоте
	ErrStaffNotAvailable = errors.New("create_appointment: staff member is not available at this slot")

	// ErrMisconfiguredShop возвращается при некорректной конфигурации расписания барбершопа
	ErrMisconfiguredShop = errors.New("create_appointment: shop schedule is misconfigured")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
