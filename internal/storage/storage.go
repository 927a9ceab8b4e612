// Package storage provides the persistent complaint record store.
//
// Records live in a single JSON file holding the serialized array, the
// process-independent analog of a browser localStorage key. An
// in-memory slice mirrors the file so reads never touch disk.
//
// Ordering contract:
//   - Save is an upsert-by-id implemented as remove-if-exists then
//     prepend, so the list is most-recently-saved first. This is an
//     explicit design choice (most-recently-touched-first), not a bug.
//   - UpdateStatus and UpdateLetter are partial in-place updates that
//     do NOT reorder.
//
// Reliability target: best-effort, single user. Write failures are
// returned as StorageError so the caller can log and swallow them;
// silent data loss on a full disk is acceptable here.
//
// Thread-safety: all operations are protected by a mutex and safe for
// concurrent access from multiple goroutines.
package storage

import (
	"encoding/json"
	"log"
	"os"
	"sync"

	"civiclens/internal/complaint"
	cerrors "civiclens/internal/errors"
)

// Store is the thread-safe complaint record store.
type Store struct {
	mu      sync.Mutex
	file    string
	records []complaint.Record
}

// New creates a Store backed by the given file and loads any existing
// records from it.
//
// Initialization flow:
//  1. Read the file (missing file is normal on first run)
//  2. Parse the record array (parse errors start an empty store)
//  3. Serve everything from memory afterwards
func New(file string) *Store {
	s := &Store{file: file}
	s.loadFromFile()
	return s
}

// loadFromFile loads records from the JSON file into memory.
func (s *Store) loadFromFile() {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("📋 No existing complaint file found. Starting with an empty store.")
		} else {
			log.Println("⚠️  Failed to open complaint file:", err)
		}
		return
	}

	var records []complaint.Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Println("⚠️  Failed to parse complaint file:", err)
		return
	}

	s.records = records
	log.Println("📚 Loaded", len(records), "complaint records from storage")
}

// persist writes the current record slice to disk. Caller must hold
// the mutex.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return cerrors.NewStorageError("marshal", err)
	}
	if err := os.WriteFile(s.file, data, 0644); err != nil {
		return cerrors.NewStorageError("write", err)
	}
	return nil
}

// Save upserts a record by id: an existing entry with the same id is
// removed and the record is prepended, so the most recently saved
// record is always first.
func (s *Store) Save(rec complaint.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]complaint.Record, 0, len(s.records)+1)
	filtered = append(filtered, rec)
	for _, existing := range s.records {
		if existing.ID != rec.ID {
			filtered = append(filtered, existing)
		}
	}
	s.records = filtered

	return s.persist()
}

// List returns all records, most-recently-saved first. The returned
// slice is a copy; mutating it does not affect the store.
func (s *Store) List() []complaint.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]complaint.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (complaint.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return complaint.Record{}, false
}

// UpdateStatus updates only the status of the record with the given
// id, in place, without reordering. A missing id is a no-op.
func (s *Store) UpdateStatus(id string, status complaint.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = status
			return s.persist()
		}
	}
	return nil
}

// UpdateLetter updates only the generated letter text of the record
// with the given id, in place, without reordering. A missing id is a
// no-op.
func (s *Store) UpdateLetter(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].GeneratedLetter = text
			return s.persist()
		}
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
