package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Footfall column names after header normalization.
const (
	ColUserID     = "user_id"
	ColUsername   = "username"
	ColFootfall   = "footfall"
	ColConversion = "conversion"
	ColPC         = "pc"
	ColTimestamp  = "timestamp"
	ColDate       = "date"
)

// Carry implements merged-cell semantics: a blank key inherits the last
// non-blank key seen, and a blank name inherits the last name with it.
type Carry struct {
	key  string
	name string
}

// Resolve returns the effective key and name for a row and advances the state.
// ok is false when no key is available yet.
func (c *Carry) Resolve(key, name string) (string, string, bool) {
	key = strings.TrimSpace(key)
	name = strings.TrimSpace(name)
	if key == "" && c.key != "" {
		key = c.key
		if name == "" {
			name = c.name
		}
	}
	if key == "" {
		return "", "", false
	}
	c.key, c.name = key, name
	return key, name, true
}

// Entry is one footfall observation read from a file.
type Entry struct {
	Footfall   int
	Conversion int
	PC         *string
	Timestamp  time.Time
}

// Group collects the entries of one user_id in file order.
type Group struct {
	Key      string
	Username string
	Entries  []Entry
}

// Grouping is the result of folding a footfall file.
type Grouping struct {
	Groups    []*Group
	TotalRows int
	Skipped   int

	index map[string]*Group
}

func (g *Grouping) add(key, username string, e Entry) {
	if g.index == nil {
		g.index = make(map[string]*Group)
	}
	grp, ok := g.index[key]
	if !ok {
		grp = &Group{Key: key}
		g.index[key] = grp
		g.Groups = append(g.Groups, grp)
	}
	if grp.Username == "" {
		grp.Username = username
	}
	grp.Entries = append(grp.Entries, e)
}

// GroupFootfall folds rows in order into per-user groups. Rows without a
// resolvable user_id, without footfall and conversion, or with an
// unrecognized date are counted as skipped. defaultPC fills blank pc cells.
func GroupFootfall(ctx context.Context, src RowSource, defaultPC string) (*Grouping, error) {
	out := &Grouping{index: make(map[string]*Group)}
	var carry Carry
	defaultPC = strings.TrimSpace(defaultPC)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				out.TotalRows++
				out.Skipped++
				continue
			}
			return nil, err
		}
		out.TotalRows++

		key, username, ok := carry.Resolve(row[ColUserID], row[ColUsername])
		if !ok {
			out.Skipped++
			continue
		}

		if !row.Has(ColFootfall) && !row.Has(ColConversion) {
			out.Skipped++
			continue
		}

		ts, ok := NormalizeDate(row.Get(ColTimestamp, ColDate))
		if !ok {
			out.Skipped++
			continue
		}

		entry := Entry{
			Footfall:   ParseCount(row[ColFootfall]),
			Conversion: ParseCount(row[ColConversion]),
			Timestamp:  ts,
		}
		if pc := row.Get(ColPC); pc != "" {
			entry.PC = &pc
		} else if defaultPC != "" {
			pc := defaultPC
			entry.PC = &pc
		}

		out.add(key, username, entry)
	}
}

// ParseCount reads a non-negative integer leniently: thousands separators are
// ignored, fractions truncate, and anything unparseable or negative is 0.
func ParseCount(raw string) int {
	f, ok := ParseNumber(raw)
	if !ok || f <= 0 || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// ParseNumber parses a decimal cell after stripping commas.
func ParseNumber(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
