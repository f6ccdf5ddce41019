package timeutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    Time
		expected string
	}{
		{
			name:     "zero milliseconds",
			input:    Time{Time: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
			expected: `"2024-01-15T10:30:00.000Z"`,
		},
		{
			name:     "nanoseconds truncated to millis",
			input:    Time{Time: time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC)},
			expected: `"2024-01-15T10:30:00.123Z"`,
		},
		{
			name:     "non-UTC timezone converted",
			input:    Time{Time: time.Date(2024, 1, 15, 18, 30, 0, 0, time.FixedZone("CST", 8*60*60))},
			expected: `"2024-01-15T10:30:00.000Z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.input)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.expected {
				t.Fatalf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestTimeUnmarshalJSON(t *testing.T) {
	var parsed Time
	if err := json.Unmarshal([]byte(`"2024-01-15T10:30:00.123Z"`), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %v, got %v", want, parsed.Time)
	}

	if err := json.Unmarshal([]byte(`"2024-01-15T10:30:00+08:00"`), &parsed); err != nil {
		t.Fatalf("unmarshal without fraction: %v", err)
	}
	if !parsed.Equal(time.Date(2024, 1, 15, 2, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", parsed.Time)
	}

	if err := json.Unmarshal([]byte(`"yesterday"`), &parsed); err == nil {
		t.Fatal("expected error for invalid time")
	}
}

func TestTimeUnmarshalNullPreservesValue(t *testing.T) {
	orig := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	parsed := Time{Time: orig}
	if err := json.Unmarshal([]byte(`null`), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(orig) {
		t.Fatalf("expected value preserved, got %v", parsed.Time)
	}
}

func TestFromUnixMillis(t *testing.T) {
	if !FromUnixMillis(0).IsZero() {
		t.Fatal("expected zero Time for 0")
	}
	got := FromUnixMillis(1700000000123)
	want := time.Date(2023, 11, 14, 22, 13, 20, 123000000, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got.Time)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
}

func TestSystemClockIsUTC(t *testing.T) {
	if SystemClock().Location() != time.UTC {
		t.Fatal("expected UTC clock")
	}
}
