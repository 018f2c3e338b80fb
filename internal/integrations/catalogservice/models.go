package catalogservice

// Shop модель барбершопа из CatalogService
type Shop struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Timezone   string  `json:"timezone"`
	IsActive   bool    `json:"is_active"`
	ManagerIDs []int64 `json:"manager_ids"` // Пользователи с правами управления барбершопом
}

// IsManagedBy проверяет, что пользователь является менеджером барбершопа
func (s *Shop) IsManagedBy(userID int64) bool {
	for _, id := range s.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Service модель услуги из CatalogService
type Service struct {
	ID              int64    `json:"id"`
	ShopID          int64    `json:"shop_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
