package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается при попытке перенести чужую запись
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrShopNotFound возвращается, когда барбершоп записи не найден в каталоге
	ErrShopNotFound = errors.New("reschedule_appointment: shop not found")

	// ErrCannotBeRescheduled возвращается, когда запись не может быть перенесена
	// (завершена, отменена или уже идет)
	ErrCannotBeRescheduled = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrInvalidDate возвращается при некорректной дате переноса
	ErrInvalidDate = errors.New("reschedule_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт записи
	ErrDateTooFarInFuture = errors.New("reschedule_appointment: date is too far in the future")

	// ErrShopClosed возвращается, когда барбершоп закрыт в указанную дату
	ErrShopClosed = errors.New("reschedule_appointment: shop is closed on this date")

	// ErrTooLateToBook возвращается, когда перенос нарушает минимальный интервал записи
	ErrTooLateToBook = errors.New("reschedule_appointment: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда выбранный слот недоступен
	ErrSlotNotAvailable = errors.New("reschedule_appointment: slot is not available")

	// ErrStaffNotAvailable возвращается, когда выбранный мастер недоступен в этом слоте
	ErrStaffNotAvailable = errors.New("reschedule_appointment: staff member is not available at this slot")

	// ErrMisconfiguredShop возвращается при некорректной конфигурации расписания барбершопа
	ErrMisconfiguredShop = errors.New("reschedule_appointment: shop schedule is misconfigured")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
