package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a point in time as the auth API reports it: an ISO string,
// epoch milliseconds, or a Firestore {seconds, nanoseconds} object.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

type firestoreTimestamp struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
	// firebase-admin serializes the fields with a leading underscore
	USeconds     *int64 `json:"_seconds"`
	UNanoseconds int64  `json:"_nanoseconds"`
}

// UnmarshalJSON accepts every form the API emits. A string that matches no
// known layout leaves the zero time so one odd record cannot fail a listing.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t.Time = parseTimestamp(s)
		return nil
	case '{':
		var fs firestoreTimestamp
		if err := json.Unmarshal(data, &fs); err != nil {
			return err
		}
		switch {
		case fs.Seconds != nil:
			t.Time = time.Unix(*fs.Seconds, fs.Nanoseconds).UTC()
		case fs.USeconds != nil:
			t.Time = time.Unix(*fs.USeconds, fs.UNanoseconds).UTC()
		}
		return nil
	default:
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		t.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
