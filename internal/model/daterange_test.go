package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 to 2024-01-31", r.Describe())

	r, err = ParseDateRange("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "All dates", r.Describe())

	_, err = ParseDateRange("2024-02-01", "2024-01-01", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseDateRange("01/02/2024", "", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestBoundsCoverWholeDays(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-01", time.UTC)
	require.NoError(t, err)

	from, until := r.Bounds()
	require.NotNil(t, from)
	require.NotNil(t, until)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *until)

	lastSecond := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	assert.True(t, lastSecond.Before(*until))
}

func TestBoundsInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	r, err := ParseDateRange("2024-01-01", "", loc)
	require.NoError(t, err)

	from, until := r.Bounds()
	assert.Nil(t, until)
	assert.Equal(t, time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, "From 2024-01-01", r.Describe())
}

func TestDescribeOpenStart(t *testing.T) {
	r, err := ParseDateRange("", "2024-03-05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Until 2024-03-05", r.Describe())
}
