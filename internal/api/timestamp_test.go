package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskr/taskr-api/internal/api/shared"
)

func TestTimestampUnmarshalJSON(t *testing.T) {
	t.Parallel()

	nineUTC := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", `"2024-01-01T09:00:00Z"`, nineUTC, false},
		{"fractional seconds", `"2024-01-01T09:00:00.5Z"`, nineUTC.Add(500 * time.Millisecond), false},
		{"minutes with zulu", `"2024-01-01T09:00Z"`, nineUTC, false},
		{"minutes with offset", `"2024-01-01T11:00+02:00"`, nineUTC, false},
		{"no zone is utc", `"2024-01-01T09:00:00"`, nineUTC, false},
		{"minutes without zone", `"2024-01-01T09:00"`, nineUTC, false},
		{"date only", `"2024-01-01"`, time.Time{}, true},
		{"not a string", `1704099600`, time.Time{}, true},
		{"garbage", `"tomorrow"`, time.Time{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var ts timestamp
			err := json.Unmarshal([]byte(tc.raw), &ts)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(ts.Time), "got %s", ts.Time)
			assert.Equal(t, time.UTC, ts.Location())
		})
	}
}

func TestTimestampInRequests(t *testing.T) {
	t.Parallel()

	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"startTime":"2024-01-01T09:00Z","endTime":null}`), &req))
	patch := req.toPatch()
	require.NotNil(t, patch.StartTime)
	assert.True(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Equal(*patch.StartTime))
	assert.Nil(t, patch.EndTime)

	var create CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","startTime":"2024-01-01T09:00Z"}`), &create))
	assert.True(t, create.EndTime.IsZero())
	assert.Error(t, shared.ValidateRequest(&create), "missing endTime fails validation")
}
