package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store writes finished export payloads to disk so the API can hand back
// a download URL instead of streaming the file inline.
type Store struct {
	dir     string
	urlBase string
	now     func() time.Time
}

func NewStore(dir, urlBase string) *Store {
	return &Store{dir: dir, urlBase: urlBase, now: time.Now}
}

// Save writes the payload as tasks-YYYY-MM-DD-HH-ii-ss.<ext> and returns
// the filename and its public URL path.
func (s *Store) Save(extension string, data []byte) (string, string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create export dir: %w", err)
	}

	filename := fmt.Sprintf("tasks-%s.%s", s.now().Format("2006-01-02-15-04-05"), extension)
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write export file: %w", err)
	}

	return filename, s.urlBase + "/" + filename, nil
}
