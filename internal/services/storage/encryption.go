package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
)

// checkPassword derives the age key pair for password and proves it against
// the verification file. Callers must hold s.mu.
func (s *Storage) checkPassword(password string) (*age.ScryptIdentity, *age.ScryptRecipient, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create identity: %w", err)
	}

	sealed, err := os.ReadFile(s.Path(verifyFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read verification file: %w", err)
	}

	plain, err := decryptData(sealed, identity)
	if err != nil || string(plain) != verifyMagic {
		return nil, nil, ErrWrongPassword
	}

	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create recipient: %w", err)
	}
	return identity, recipient, nil
}

func encryptData(data []byte, recipient *age.ScryptRecipient) ([]byte, error) {
	var buf bytes.Buffer

	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decryptData(data []byte, identity *age.ScryptIdentity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
