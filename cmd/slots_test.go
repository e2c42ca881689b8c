package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func TestGenerateFlags_ToRequest(t *testing.T) {
	req, err := generateFlags{
		businessID: 1, serviceID: 2, interval: 30, capacity: 0,
		from: "2025-10-13", days: 3, start: "10:00", end: "12:00",
	}.toRequest()
	require.NoError(t, err)

	require.NotNil(t, req.Capacity)
	assert.Equal(t, 0, *req.Capacity)
	require.Len(t, req.Schedules, 3)
	assert.Equal(t, "2025-10-15", req.Schedules[2].Date.Format(domain.DateFormat))
	require.Len(t, req.Schedules[0].TimeRanges, 1)
	assert.Equal(t, types.TimeString("10:00"), req.Schedules[0].TimeRanges[0].Start)

	req, err = generateFlags{businessID: 1, serviceID: 2, interval: 60, capacity: -1, days: 1}.toRequest()
	require.NoError(t, err)
	assert.Nil(t, req.Capacity)
	assert.Empty(t, req.Schedules[0].TimeRanges)

	_, err = generateFlags{from: "13.10.2025", days: 1}.toRequest()
	assert.Error(t, err)

	_, err = generateFlags{days: 0}.toRequest()
	assert.Error(t, err)

	_, err = generateFlags{days: 1, start: "10:00"}.toRequest()
	assert.Error(t, err)
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{{"serve"}, {"migrate"}, {"slots", "generate"}, {"slots", "horizon"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
