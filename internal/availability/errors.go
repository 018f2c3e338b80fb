package availability

import "errors"

var (
	// ErrInvalidConfig возвращается при некорректной конфигурации барбершопа
	// (неположительный шаг слотов, отрицательный буфер и т.п.)
	// Ошибка конфигурации - это громкий отказ, а не "нет слотов":
	// иначе клиент не отличит закрытый барбершоп от сломанного
	ErrInvalidConfig = errors.New("availability: invalid shop config")

	// ErrUnknownTimezone возвращается, когда таймзона барбершопа не распознана
	ErrUnknownTimezone = errors.New("availability: unknown timezone")

	// ErrMalformedRule возвращается при некорректном правиле расписания
	// (невалидный формат времени, открытие не раньше закрытия)
	ErrMalformedRule = errors.New("availability: malformed weekly hours rule")

	// ErrMissingInput возвращается при вызове движка с незагруженными входными данными
	// Отсутствие обязательных входов - нарушение предусловия, а не мягкий дефолт
	ErrMissingInput = errors.New("availability: missing required input")
)
