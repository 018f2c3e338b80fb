package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"обернутая ошибка сериализации",
			fmt.Errorf("txmanager: failed to commit transaction: %w", &pq.Error{Code: "40001"}),
			true,
		},
		{
			"другой код ошибки PostgreSQL",
			fmt.Errorf("txmanager: failed to commit transaction: %w", &pq.Error{Code: "23505"}),
			false,
		},
		{"обычная ошибка", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}
