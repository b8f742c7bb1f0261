package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookline-dev/bookline/internal/model"
)

// Header is the CSV header for journal.csv. Each row is one line of an
// entry; the entry-level fields repeat on every row of the same entry.
const Header = "entry_id,line_id,date,reference,description,status,account_id,line_description,partner_id,debit,credit"

const (
	numFields   = 11
	dateFormat  = "2006-01-02"
	colEntryID  = 0
	colLineID   = 1
	colDate     = 2
	colRef      = 3
	colDesc     = 4
	colStatus   = 5
	colAcctID   = 6
	colLineDesc = 7
	colPartner  = 8
	colDebit    = 9
	colCredit   = 10
)

// ReadEntries reads a journal.csv stream and regroups rows into entries.
// Rows of the same entry are expected to be contiguous.
func ReadEntries(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		entry, line, err := unmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if n := len(entries); n > 0 && entries[n-1].ID == entry.ID {
			entries[n-1].Lines = append(entries[n-1].Lines, line)
			continue
		}
		entry.Lines = []model.Line{line}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range entries {
		if err := writeEntryRows(cw, e); err != nil {
			return err
		}
	}
	return cw.Error()
}

// AppendEntry appends one entry's rows to an existing journal.csv writer
// (no header).
func AppendEntry(w io.Writer, e model.JournalEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := writeEntryRows(cw, e); err != nil {
		return err
	}
	return cw.Error()
}

func writeEntryRows(cw *csv.Writer, e model.JournalEntry) error {
	for i, l := range e.Lines {
		if err := cw.Write(marshalRow(e, l)); err != nil {
			return fmt.Errorf("writing line %d of entry %s: %w", i, e.ID, err)
		}
	}
	return nil
}

func marshalRow(e model.JournalEntry, l model.Line) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colLineID] = l.ID
	row[colDate] = e.Date.Format(dateFormat)
	row[colRef] = e.Reference
	row[colDesc] = e.Description
	row[colStatus] = string(e.Status)
	row[colAcctID] = l.AccountID
	row[colLineDesc] = l.Description
	row[colPartner] = l.PartnerID
	if !l.Debit.IsZero() {
		row[colDebit] = l.Debit.StringFixed(2)
	}
	if !l.Credit.IsZero() {
		row[colCredit] = l.Credit.StringFixed(2)
	}
	return row
}

func unmarshalRow(record []string) (model.JournalEntry, model.Line, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, model.Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.JournalEntry{}, model.Line{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	var debit, credit decimal.Decimal
	if record[colDebit] != "" {
		if debit, err = decimal.NewFromString(record[colDebit]); err != nil {
			return model.JournalEntry{}, model.Line{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		if credit, err = decimal.NewFromString(record[colCredit]); err != nil {
			return model.JournalEntry{}, model.Line{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	entry := model.JournalEntry{
		ID:          record[colEntryID],
		Date:        date,
		Reference:   record[colRef],
		Description: record[colDesc],
		Status:      model.EntryStatus(record[colStatus]),
	}
	line := model.Line{
		ID:          record[colLineID],
		AccountID:   record[colAcctID],
		Description: record[colLineDesc],
		PartnerID:   record[colPartner],
		Debit:       debit,
		Credit:      credit,
	}
	return entry, line, nil
}
