package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)

func TestNowInTimezone(t *testing.T) {
	svc := NewService("UTC").WithNowFunc(func() time.Time { return fixed })

	now, err := svc.Now("Asia/Seoul")

	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", now.Timezone)
	// 05:00 UTC is 14:00 in Seoul
	assert.Equal(t, "2025-06-02T14:00:00+09:00", now.ISOTime)
	assert.Equal(t, "Monday, June 2 2025, 14:00", now.ReadableTime)
}

func TestNowDefaultsTimezone(t *testing.T) {
	svc := NewService("Asia/Seoul").WithNowFunc(func() time.Time { return fixed })

	now, err := svc.Now("")

	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", now.Timezone)
}

func TestNowRejectsUnknownTimezone(t *testing.T) {
	svc := NewService("UTC")

	_, err := svc.Now("Mars/Olympus_Mons")

	assert.Error(t, err)
}
