package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories the application writes to
type Paths struct {
	ExportsDir string
	LogsDir    string
}

// GetPaths resolves the configured directories to absolute paths.
// Relative entries are taken relative to the working directory.
func (c *Config) GetPaths() (*Paths, error) {
	exports, err := resolveDir(c.Paths.ExportsDir, DefaultExportsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve exports dir: %w", err)
	}
	logs, err := resolveDir(c.Paths.LogsDir, DefaultLogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}
	return &Paths{ExportsDir: exports, LogsDir: logs}, nil
}

func resolveDir(dir, fallback string) (string, error) {
	if dir == "" {
		dir = fallback
	}
	return filepath.Abs(dir)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()

	for _, dir := range []string{p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetExportPath returns the path of filename inside the exports directory
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filepath.Base(filename))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution() {
	slog.Default().Info("Path resolution summary",
		slog.Group("directories",
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		))
}
