package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the file system locations a run reads from and writes logs to.
type Paths struct {
	DataDir string
	LogsDir string
}

// NewPaths resolves dataDir against the working directory. An empty dataDir
// falls back to DefaultDataDir.
func NewPaths(dataDir string) (*Paths, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, NewPathError(dataDir, err)
	}
	logsDir, err := filepath.Abs(DefaultLogsDir)
	if err != nil {
		return nil, NewPathError(DefaultLogsDir, err)
	}
	return &Paths{DataDir: abs, LogsDir: logsDir}, nil
}

// GetDatasetPath returns the full path of a dataset file
func (p *Paths) GetDatasetPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// MissingDatasets returns the dataset files that do not exist under DataDir.
func (p *Paths) MissingDatasets() []string {
	var missing []string
	for _, name := range DatasetFiles() {
		if !FileExists(p.GetDatasetPath(name)) {
			missing = append(missing, name)
		}
	}
	return missing
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution",
		slog.String("data_dir", p.DataDir),
		slog.String("logs_dir", p.LogsDir),
		slog.Int("missing_datasets", len(p.MissingDatasets())))
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
