// Package id formats and parses journal entry numbers. Posted entries are
// numbered per month: "2025-01-003" is the third entry of January 2025, and
// its lines carry a trailing letter ("2025-01-003a", "2025-01-003b", ...).
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatEntryID returns an entry id like "2025-01-003".
func FormatEntryID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatLineID returns a line id: the entry id plus a letter suffix
// (line 0 = 'a', 1 = 'b', ...).
func FormatLineID(entryID string, line int) string {
	return entryID + string(rune('a'+line))
}

// EntryGroup strips the line suffix from a line id.
// "2025-01-003a" -> "2025-01-003".
func EntryGroup(lineID string) string {
	end := len(lineID)
	for end > 0 && lineID[end-1] >= 'a' && lineID[end-1] <= 'z' {
		end--
	}
	return lineID[:end]
}

// ParseEntryID parses an entry or line id into year, month and sequence.
func ParseEntryID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(EntryGroup(id), "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid entry id format: %q", id)
	}

	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry id %q: %w", id, err)
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in entry id %q: %w", id, err)
	}
	if seq, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry id %q: %w", id, err)
	}
	return year, month, seq, nil
}
