package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON(t *testing.T) {
	tt := Time(time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local))

	data, err := tt.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-01 10:30:00"`, string(data))
}

func TestUnmarshalJSON(t *testing.T) {
	var tt Time
	require.NoError(t, tt.UnmarshalJSON([]byte(`"2025-06-01 10:30:00"`)))
	assert.Equal(t, "2025-06-01 10:30:00", tt.String())

	// null 和空串不改变原值
	var zero Time
	require.NoError(t, zero.UnmarshalJSON([]byte("null")))
	assert.True(t, zero.IsZero())
	require.NoError(t, zero.UnmarshalJSON([]byte(`""`)))
	assert.True(t, zero.IsZero())
}

func TestValueZeroTimeIsNil(t *testing.T) {
	var zero Time
	v, err := zero.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	now := Now()
	v, err = now.Value()
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestScan(t *testing.T) {
	var tt Time

	require.NoError(t, tt.Scan(time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)))
	assert.Equal(t, "2025-06-01 10:30:00", tt.String())

	require.NoError(t, tt.Scan("2025-07-02 08:00:00"))
	assert.Equal(t, "2025-07-02 08:00:00", tt.String())

	require.NoError(t, tt.Scan([]byte("2025-08-03 09:15:30")))
	assert.Equal(t, "2025-08-03 09:15:30", tt.String())

	assert.Error(t, tt.Scan(12345))
}

func TestBefore(t *testing.T) {
	a := Time(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local))
	b := Time(time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local))
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
}
