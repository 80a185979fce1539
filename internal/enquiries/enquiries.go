// Package enquiries keeps a local log of the contact enquiries prepared in the
// brochure, so a guest can find a message again after the WhatsApp hand-off.
package enquiries

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/parvatislap/lapas/internal/site"
)

// Record is one stored enquiry.
type Record struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Message     string    `json:"message"`
	WhatsAppURL string    `json:"whatsappUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// New stamps an enquiry with an id and a creation time.
func New(e site.Enquiry, whatsAppURL string, now time.Time) Record {
	return Record{
		ID:          uuid.NewString(),
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Phone:       e.Phone,
		Message:     e.Message,
		WhatsAppURL: whatsAppURL,
		CreatedAt:   now.UTC(),
	}
}

// Name joins first and last name.
func (r Record) Name() string {
	return site.Enquiry{FirstName: r.FirstName, LastName: r.LastName}.Name()
}

// DefaultPath is the log location when none is configured.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "parvatislap", "enquiries.json")
}

// Save appends records to the log at path, creating it if necessary.
func Save(path string, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	existing, err := loadEntries(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for _, record := range records {
		raw, err := json.Marshal(record)
		if err != nil {
			return err
		}
		existing = append(existing, raw)
	}
	return writeEntries(path, existing)
}

// Load returns stored records, newest first. A missing log is empty.
func Load(path string) ([]Record, error) {
	entries, err := loadEntries(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(entries))
	for _, raw := range entries {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func writeEntries(path string, entries []json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
