package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampForms(t *testing.T) {
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"iso string", `"2023-11-14T22:13:20.000Z"`, want},
		{"firestore object", `{"seconds":1700000000,"nanoseconds":0}`, want},
		{"admin sdk object", `{"_seconds":1700000000,"_nanoseconds":0}`, want},
		{"epoch millis", `1700000000000`, want},
		{"date only", `"2023-11-14"`, time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC)},
		{"unknown string", `"last tuesday"`, time.Time{}},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestUserRecordTimestamps(t *testing.T) {
	raw := `{"username":"bob","role":"user","createdAt":"2023-01-02T03:04:05Z",
		"inResidence":true,"lastChanged":{"seconds":1700000000,"nanoseconds":500}}`

	var u UserRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	require.NotNil(t, u.CreatedAt)
	require.NotNil(t, u.LastChanged)
	assert.Nil(t, u.LastLogin)
	assert.Equal(t, 2023, u.CreatedAt.Year())
	assert.Equal(t, time.Unix(1700000000, 500).UTC(), u.LastChanged.Time)
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`true`), &ts))
}
