package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes data to dir/<id>.pdf, creating dir if needed, and returns
// the path.
func Save(dir, id string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, id+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
