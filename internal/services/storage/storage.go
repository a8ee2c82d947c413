// Package storage reads and writes the planner's data files, encrypting them
// with an age scrypt passphrase once encryption has been enabled.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of every age-encrypted file
	ageHeader = "age-encryption.org"

	// markerFile marks a data directory as encrypted
	markerFile = ".encrypted"

	// verifyFile holds verifyMagic encrypted with the current passphrase
	verifyFile = ".encryption-verify"

	verifyMagic = `{"magic":"debtplan-passphrase-check","version":1}`

	// MinPasswordLength is the shortest passphrase EnableEncryption accepts
	MinPasswordLength = 8
)

var (
	// ErrLocked is returned when an encrypted file is read before Unlock
	ErrLocked = errors.New("storage is locked")
	// ErrWrongPassword is returned when a passphrase fails verification
	ErrWrongPassword = errors.New("incorrect password")
)

// Storage provides transparent encrypted/plain access to files under one directory
type Storage struct {
	dir       string
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New opens the data directory, creating it if needed
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dir: dir}
	if _, err := os.Stat(filepath.Join(dir, markerFile)); err == nil {
		s.encrypted = true
	}
	return s, nil
}

// Dir returns the data directory
func (s *Storage) Dir() string {
	return s.dir
}

// Path joins name onto the data directory
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// IsEncrypted reports whether the data directory is encrypted
func (s *Storage) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked reports whether files can be read, true for plain directories
func (s *Storage) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// Unlock verifies the passphrase and keeps the derived key in memory
func (s *Storage) Unlock(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}

	identity, recipient, err := s.checkPassword(password)
	if err != nil {
		return err
	}

	s.identity = identity
	s.recipient = recipient
	return nil
}

// Lock drops the key; encrypted files become unreadable until Unlock
func (s *Storage) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.recipient = nil
}

// ReadFile reads a file relative to the data directory, decrypting it if needed
func (s *Storage) ReadFile(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, err
	}

	if !isAgeEncrypted(data) {
		return data, nil
	}
	if s.identity == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrLocked)
	}
	return decryptData(data, s.identity)
}

// WriteFile writes a file relative to the data directory, encrypting it when enabled
func (s *Storage) WriteFile(name string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.encrypted && !isControlFile(name) {
		if s.recipient == nil {
			return fmt.Errorf("%s: %w", name, ErrLocked)
		}
		encrypted, err := encryptData(data, s.recipient)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", name, err)
		}
		data = encrypted
	}

	return atomicWrite(s.Path(name), data)
}

// ReadJSON decodes a data file into v. A missing file is reported with os.ErrNotExist.
func (s *Storage) ReadJSON(name string, v any) error {
	data, err := s.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// WriteJSON encodes v as indented JSON and writes it atomically
func (s *Storage) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return s.WriteFile(name, data)
}

// Remove deletes a data file; a missing file is not an error
func (s *Storage) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// atomicWrite writes through a temp file and rename so readers never see a partial file
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Each write gets its own temp file so concurrent writers never share one
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// isControlFile reports whether name is one of the encryption bookkeeping files
func isControlFile(name string) bool {
	base := filepath.Base(name)
	return base == markerFile || base == verifyFile
}

func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}
