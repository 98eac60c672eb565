package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence() func() snowflake.ID {
	var next int64
	return func() snowflake.ID {
		next++
		return snowflake.ID(next)
	}
}

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestMergeOverwritesEqualTimestamp(t *testing.T) {
	pc := "PC1"
	r := &Record{UserID: "U1"}
	ids := sequence()
	now := day(10)

	applied := r.Merge([]FootEntry{
		{Footfall: 8, Conversion: 2, Timestamp: day(2)},
		{Footfall: 5, Conversion: 1, PC: &pc, Timestamp: day(1)},
	}, now, ids)
	require.Equal(t, 2, applied)
	require.Len(t, r.Entries, 2)
	assert.True(t, r.Entries[0].Timestamp.Equal(day(1)), "entries sorted ascending")

	firstID := r.Entries[0].ID
	applied = r.Merge([]FootEntry{{Footfall: 99, Timestamp: day(1)}}, now, ids)
	require.Equal(t, 1, applied)
	require.Len(t, r.Entries, 2)
	assert.Equal(t, firstID, r.Entries[0].ID)
	assert.Equal(t, 99, r.Entries[0].Footfall)
	assert.Equal(t, 0, r.Entries[0].Conversion)
	assert.Nil(t, r.Entries[0].PC, "pc is overwritten even when absent")
}

func TestMergeIsIdempotent(t *testing.T) {
	batch := []FootEntry{
		{Footfall: 1, Timestamp: day(1)},
		{Footfall: 2, Timestamp: day(2)},
		{Footfall: 3, Timestamp: day(3)},
	}
	r := &Record{}
	ids := sequence()
	r.Merge(batch, day(10), ids)
	r.Merge(batch, day(10), ids)
	assert.Len(t, r.Entries, 3)
}

func TestMergeSkipsFutureEntries(t *testing.T) {
	r := &Record{}
	applied := r.Merge([]FootEntry{
		{Footfall: 1, Timestamp: day(1)},
		{Footfall: 2, Timestamp: day(20)},
	}, day(10), sequence())
	assert.Equal(t, 1, applied)
	require.Len(t, r.Entries, 1)
	assert.True(t, r.Entries[0].Timestamp.Equal(day(1)))
}

func TestAppendKeepsDuplicates(t *testing.T) {
	r := &Record{}
	ids := sequence()
	r.Append([]FootEntry{{Footfall: 1, Timestamp: day(3)}}, day(10), ids)
	r.Append([]FootEntry{{Footfall: 2, Timestamp: day(3)}, {Footfall: 3, Timestamp: day(1)}}, day(10), ids)

	require.Len(t, r.Entries, 3)
	assert.Equal(t, 3, r.Entries[0].Footfall)
	assert.NotEqual(t, r.Entries[1].ID, r.Entries[2].ID)
}

func TestEntryAndRemoveEntry(t *testing.T) {
	r := &Record{}
	r.Append([]FootEntry{{Footfall: 1, Timestamp: day(1)}, {Footfall: 2, Timestamp: day(2)}}, day(10), sequence())

	e := r.Entry(2)
	require.NotNil(t, e)
	e.Footfall = 42
	assert.Equal(t, 42, r.Entries[1].Footfall)

	assert.Nil(t, r.Entry(7))
	assert.True(t, r.RemoveEntry(1))
	assert.False(t, r.RemoveEntry(1))
	require.Len(t, r.Entries, 1)
	assert.Equal(t, snowflake.ID(2), r.Entries[0].ID)
}

func TestEntryInputDecodesTimestamps(t *testing.T) {
	cases := []struct {
		name string
		body string
		want *time.Time
	}{
		{"iso date", `{"footfall":3,"timestamp":"2025-01-01"}`, ptrTime(day(1))},
		{"rfc3339", `{"footfall":3,"timestamp":"2025-01-02T00:00:00Z"}`, ptrTime(day(2))},
		{"day first", `{"footfall":3,"timestamp":"3/1/2025"}`, ptrTime(day(3))},
		{"epoch millis", `{"footfall":3,"timestamp":1735948800000}`, ptrTime(day(4))},
		{"absent", `{"footfall":3}`, nil},
		{"null", `{"footfall":3,"timestamp":null}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var in EntryInput
			require.NoError(t, json.Unmarshal([]byte(tc.body), &in))
			assert.Equal(t, 3, in.Footfall)
			if tc.want == nil {
				assert.Nil(t, in.Timestamp)
				return
			}
			require.NotNil(t, in.Timestamp)
			assert.True(t, tc.want.Equal(*in.Timestamp), "got %s", in.Timestamp)
		})
	}

	var in EntryInput
	err := json.Unmarshal([]byte(`{"timestamp":"someday"}`), &in)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func ptrTime(t time.Time) *time.Time { return &t }
