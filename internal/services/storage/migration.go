package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

// EnableEncryption encrypts every JSON data file in place with password
func (s *Storage) EnableEncryption(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encrypted {
		return errors.New("encryption is already enabled")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return fmt.Errorf("failed to create recipient: %w", err)
	}
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	sealed, err := encryptData([]byte(verifyMagic), recipient)
	if err != nil {
		return fmt.Errorf("failed to encrypt verification file: %w", err)
	}
	verifyPath := s.Path(verifyFile)
	if err := atomicWrite(verifyPath, sealed); err != nil {
		return fmt.Errorf("failed to write verification file: %w", err)
	}

	files, err := s.dataFiles()
	if err != nil {
		os.Remove(verifyPath)
		return err
	}

	for i, path := range files {
		if err := transformFile(path, func(data []byte) ([]byte, error) {
			if isAgeEncrypted(data) {
				return data, nil
			}
			return encryptData(data, recipient)
		}); err != nil {
			s.restore(files[:i], identity)
			os.Remove(verifyPath)
			return fmt.Errorf("failed to encrypt %s: %w", filepath.Base(path), err)
		}
	}

	if err := atomicWrite(s.Path(markerFile), []byte("encrypted")); err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}

	s.encrypted = true
	s.identity = identity
	s.recipient = recipient
	return nil
}

// DisableEncryption decrypts every data file in place; password must match
func (s *Storage) DisableEncryption(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return errors.New("encryption is not enabled")
	}

	identity, _, err := s.checkPassword(password)
	if err != nil {
		return err
	}

	files, err := s.dataFiles()
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := transformFile(path, func(data []byte) ([]byte, error) {
			if !isAgeEncrypted(data) {
				return data, nil
			}
			return decryptData(data, identity)
		}); err != nil {
			return fmt.Errorf("failed to decrypt %s: %w", filepath.Base(path), err)
		}
	}

	os.Remove(s.Path(markerFile))
	os.Remove(s.Path(verifyFile))

	s.encrypted = false
	s.identity = nil
	s.recipient = nil
	return nil
}

// dataFiles lists the JSON files that hold user data
func (s *Storage) dataFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isControlFile(path) {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}
	return files, nil
}

// transformFile rewrites a file through fn
func transformFile(path string, fn func([]byte) ([]byte, error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := fn(data)
	if err != nil {
		return err
	}
	return atomicWrite(path, out)
}

// restore decrypts files already encrypted by a failed EnableEncryption (best effort)
func (s *Storage) restore(files []string, identity *age.ScryptIdentity) {
	for _, path := range files {
		transformFile(path, func(data []byte) ([]byte, error) {
			if !isAgeEncrypted(data) {
				return data, nil
			}
			return decryptData(data, identity)
		})
	}
}
