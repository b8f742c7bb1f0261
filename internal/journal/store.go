package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookline-dev/bookline/internal/auditlog"
	"github.com/bookline-dev/bookline/internal/gitops"
	"github.com/bookline-dev/bookline/internal/id"
	"github.com/bookline-dev/bookline/internal/model"
)

const draftPrefix = "draft-"

// GitOptions controls whether the store commits the book after a post.
type GitOptions struct {
	AutoCommit  bool
	AuthorName  string
	AuthorEmail string
}

// FileStore persists journal entries under a book root directory. Posted
// entries are appended to <root>/<year>/<month>/journal.csv with sequential
// entry numbers; drafts are rewritten in full under <root>/drafts/. Every
// successful commit appends a row to the book's audit log.
type FileStore struct {
	root string
	git  GitOptions
}

// NewFileStore creates a FileStore rooted at a book directory.
func NewFileStore(root string, git GitOptions) *FileStore {
	return &FileStore{root: root, git: git}
}

// Post assigns the next entry number for the entry's month and appends the
// entry. Empty lines are dropped and line ids are renumbered to the posted
// form ("2025-01-003a", ...). Returns the assigned entry id.
func (s *FileStore) Post(ctx context.Context, e model.JournalEntry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	year := e.Date.Year()
	month := int(e.Date.Month())
	seq, err := s.nextSeq(year, month)
	if err != nil {
		return "", err
	}

	draftID := e.ID
	e.ID = id.FormatEntryID(year, month, seq)
	e.Status = model.StatusPosted
	e.Lines = e.UsedLines()
	for i := range e.Lines {
		e.Lines[i].ID = id.FormatLineID(e.ID, i)
	}

	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendEntry(f, e); err != nil {
		return "", fmt.Errorf("appending entry: %w", err)
	}

	// A posted entry supersedes the draft it was edited from.
	if strings.HasPrefix(draftID, draftPrefix) {
		_ = os.Remove(s.draftPath(draftID))
	}

	if err := s.audit(auditlog.ActionPost, e.ID, e.Description); err != nil {
		return "", err
	}
	if err := s.commit("journal: post " + e.ID); err != nil {
		return "", err
	}
	return e.ID, nil
}

// SaveDraft writes the entry to <root>/drafts/<id>.csv, assigning a draft id
// on first save. Drafts need not balance or be complete; they only have to
// round-trip.
func (s *FileStore) SaveDraft(ctx context.Context, e model.JournalEntry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if e.ID == "" {
		e.ID = draftPrefix + uuid.NewString()
	}
	e.Status = model.StatusDraft
	e.Lines = e.UsedLines()

	dir := filepath.Join(s.root, "drafts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating drafts dir: %w", err)
	}

	f, err := os.Create(s.draftPath(e.ID))
	if err != nil {
		return "", fmt.Errorf("creating draft file: %w", err)
	}
	defer f.Close()

	if err := WriteEntries(f, []model.JournalEntry{e}); err != nil {
		return "", fmt.Errorf("writing draft: %w", err)
	}

	if err := s.audit(auditlog.ActionSaveDraft, e.ID, e.Description); err != nil {
		return "", err
	}
	return e.ID, nil
}

// LoadDraft reads a previously saved draft back.
func (s *FileStore) LoadDraft(draftID string) (model.JournalEntry, error) {
	f, err := os.Open(s.draftPath(draftID))
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("opening draft %s: %w", draftID, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("reading draft %s: %w", draftID, err)
	}
	if len(entries) != 1 {
		return model.JournalEntry{}, fmt.Errorf("draft %s holds %d entries, want 1", draftID, len(entries))
	}
	return entries[0], nil
}

// ReadMonth reads all posted entries for a given year/month. A missing
// journal file means no entries yet.
func (s *FileStore) ReadMonth(year, month int) ([]model.JournalEntry, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

// nextSeq returns the next available entry number for a month.
func (s *FileStore) nextSeq(year, month int) (int, error) {
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, e := range entries {
		_, _, seq, err := id.ParseEntryID(e.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

func (s *FileStore) audit(action, entryID, details string) error {
	err := auditlog.Append(s.root, []auditlog.Entry{{
		Timestamp: time.Now(),
		Actor:     "bookline",
		Action:    action,
		EntryID:   entryID,
		Details:   details,
	}})
	if err != nil {
		return fmt.Errorf("appending audit log: %w", err)
	}
	return nil
}

func (s *FileStore) commit(message string) error {
	if !s.git.AutoCommit || !gitops.IsRepo(s.root) {
		return nil
	}
	if _, err := gitops.CommitAll(s.root, message, s.git.AuthorName, s.git.AuthorEmail); err != nil {
		return fmt.Errorf("committing book: %w", err)
	}
	return nil
}

func (s *FileStore) monthPath(year, month int) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}

func (s *FileStore) draftPath(draftID string) string {
	return filepath.Join(s.root, "drafts", draftID+".csv")
}
