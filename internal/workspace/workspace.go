package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const BaseDirName = ".nadcal"

// Settings is state the CLI carries between runs.
type Settings struct {
	LastSession string `json:"last_session"`
}

func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

func EnsureAt(base string) (string, error) {
	paths := []string{
		filepath.Join(base, "configs"),
		filepath.Join(base, "sessions"),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	if _, err := os.Stat(settingsPath(base)); os.IsNotExist(err) {
		if err := SaveSettings(base, Settings{}); err != nil {
			return "", err
		}
	}

	return base, nil
}

func SessionsDir(base string) string {
	return filepath.Join(base, "sessions")
}

func settingsPath(base string) string {
	return filepath.Join(base, "configs", "settings.json")
}

// LoadSettings returns zero settings when the file is missing.
func LoadSettings(base string) (Settings, error) {
	var s Settings
	raw, err := os.ReadFile(settingsPath(base))
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func SaveSettings(base string, s Settings) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(settingsPath(base), raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
