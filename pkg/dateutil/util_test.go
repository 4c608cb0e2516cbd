package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_NextInterval(t *testing.T) {
	at := time.Date(2024, 3, 10, 10, 45, 12, 0, time.UTC)

	next := NextInterval(at, time.Hour)
	require.Equal(t, time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC), next)

	next = NextInterval(at, 6*time.Hour)
	require.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), next)
}

func Test_NextDay(t *testing.T) {
	at := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), NextDay(at))
}
