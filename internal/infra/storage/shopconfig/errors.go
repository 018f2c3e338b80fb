package shopconfig

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация барбершопа не найдена
	ErrConfigNotFound = errors.New("shopconfig.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("shopconfig.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("shopconfig.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("shopconfig.repository: failed to scan row")
)
