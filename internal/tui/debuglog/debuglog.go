// ABOUTME: File-backed slog logger for the TUI
// ABOUTME: Keeps log output off the terminal while the alt screen is active

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/logger"
)

// FileName is the log file created inside the config directory
const FileName = "debug.log"

// Open returns a logger appending to configDir/debug.log and the file to close
// when the TUI exits. An empty configDir disables logging.
func Open(configDir, level, format string) (*slog.Logger, io.Closer, error) {
	if configDir == "" {
		return logger.Discard(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(filepath.Join(configDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, err
	}

	return logger.New(f, level, format), f, nil
}
