package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"09:00", false},
		{"23:59", false},
		{"00:00", false},
		{"24:00", true},
		{"9:00", true},
		{"09:0", true},
		{"09-00", true},
		{"0a:00", true},
		{"09:60", true},
		{"0930", true},
		{"abc", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts, err := NewTimeStringFromString("10:45")
	require.NoError(t, err)

	m, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 10*60+45, m)
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(9*60 + 5)
	require.NoError(t, err)
	assert.Equal(t, "09:05", ts.String())

	_, err = NewTimeStringFromMinutes(MinutesPerDay)
	assert.Error(t, err)

	_, err = NewTimeStringFromMinutes(-1)
	assert.Error(t, err)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:00")

	later, err := ts.AddMinutes(95)
	require.NoError(t, err)
	assert.Equal(t, "10:35", later.String())

	// Выход за пределы суток - ошибка
	_, err = TimeString("23:50").AddMinutes(30)
	assert.Error(t, err)
}

func TestTimeString_Comparison(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("18:30").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestTimeString_Scan(t *testing.T) {
	t.Run("строка с секундами из колонки TIME", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan("14:30:00"))
		assert.Equal(t, "14:30", ts.String())
	})

	t.Run("байты", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan([]byte("08:15")))
		assert.Equal(t, "08:15", ts.String())
	})

	t.Run("time.Time", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan(time.Date(2025, 6, 2, 11, 20, 0, 0, time.UTC)))
		assert.Equal(t, "11:20", ts.String())
	})

	t.Run("неподдерживаемый тип", func(t *testing.T) {
		var ts TimeString
		assert.Error(t, ts.Scan(42))
	})
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("12:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "12:00", v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}
