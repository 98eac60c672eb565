package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// FootEntry is one day's footfall for a user. Entries live inside their
// Record and are addressed by ID for edits.
type FootEntry struct {
	ID         snowflake.ID `json:"id"`
	Footfall   int          `json:"footfall"`
	Conversion int          `json:"conversion"`
	PC         *string      `json:"pc,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// Record is a UserFootfallRecord keyed by the natural key user_id.
type Record struct {
	ID        snowflake.ID                  `gorm:"primaryKey" json:"id"`
	UserID    string                        `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Username  string                        `gorm:"not null" json:"username"`
	Entries   datatypes.JSONSlice[FootEntry] `gorm:"column:foot_entry;not null" json:"foot_entry"`
	CreatedAt time.Time                     `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time                     `gorm:"not null" json:"updatedAt"`
}

func (Record) TableName() string { return "footfall_records" }

// Merge upserts incoming entries by timestamp: an entry with an equal
// timestamp is overwritten in place, otherwise a new entry is appended.
// Entries later than now are ignored. Entries end up sorted ascending.
// It returns how many incoming entries were applied.
func (r *Record) Merge(incoming []FootEntry, now time.Time, newID func() snowflake.ID) int {
	applied := 0
	for _, in := range incoming {
		if in.Timestamp.After(now) {
			continue
		}
		if idx := r.indexOf(in.Timestamp); idx >= 0 {
			r.Entries[idx].Footfall = in.Footfall
			r.Entries[idx].Conversion = in.Conversion
			r.Entries[idx].PC = in.PC
		} else {
			in.ID = newID()
			r.Entries = append(r.Entries, in)
		}
		applied++
	}
	r.sortEntries()
	return applied
}

// Append adds entries without de-duplicating, dropping future timestamps.
func (r *Record) Append(incoming []FootEntry, now time.Time, newID func() snowflake.ID) int {
	applied := 0
	for _, in := range incoming {
		if in.Timestamp.After(now) {
			continue
		}
		in.ID = newID()
		r.Entries = append(r.Entries, in)
		applied++
	}
	r.sortEntries()
	return applied
}

// Entry returns a pointer into Entries for the given id.
func (r *Record) Entry(id snowflake.ID) *FootEntry {
	for i := range r.Entries {
		if r.Entries[i].ID == id {
			return &r.Entries[i]
		}
	}
	return nil
}

// RemoveEntry deletes the entry with id and reports whether it existed.
func (r *Record) RemoveEntry(id snowflake.ID) bool {
	for i := range r.Entries {
		if r.Entries[i].ID == id {
			r.Entries = append(r.Entries[:i], r.Entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Record) indexOf(ts time.Time) int {
	for i := range r.Entries {
		if r.Entries[i].Timestamp.Equal(ts) {
			return i
		}
	}
	return -1
}

func (r *Record) sortEntries() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		return r.Entries[i].Timestamp.Before(r.Entries[j].Timestamp)
	})
}
