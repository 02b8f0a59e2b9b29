package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// storedSession is the credential taskctl keeps between invocations, written
// under the user's config directory with owner-only permissions.
type storedSession struct {
	Server string `json:"server"`
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func sessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve config directory")
	}

	return filepath.Join(configDir, "taskctl", "session.json"), nil
}

func loadSession() (*storedSession, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("not logged in, run `taskctl login` first")
		}

		return nil, errors.Wrap(err, "failed to read session file")
	}

	var sess storedSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, errors.Wrap(err, "failed to parse session file")
	}

	return &sess, nil
}

func saveSession(sess *storedSession) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}

	return nil
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session file")
	}

	return nil
}
