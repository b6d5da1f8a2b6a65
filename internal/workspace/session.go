package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	storePrefix = "events_"
	storeSuffix = ".json"
)

// NewSessionID returns a 12 hex character session id.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// StoreFileName is the file name of a session's event collection.
func StoreFileName(sessionID string) string {
	return storePrefix + sanitizeSessionID(sessionID) + storeSuffix
}

// ListSessions returns the ids of sessions with a store file in dir,
// sorted.
func ListSessions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, storePrefix) || !strings.HasSuffix(name, storeSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, storePrefix), storeSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

func sanitizeSessionID(id string) string {
	base := filepath.Base(strings.TrimSpace(id))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "default"
	}
	return strings.ReplaceAll(base, "..", "")
}
