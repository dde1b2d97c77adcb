package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If SLOTTING_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.slotting/logs/slotting.log
func GetLogFilePath() string {
	if customPath := os.Getenv("SLOTTING_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "slotting.log"
	}

	return filepath.Join(homeDir, ".slotting", "logs", "slotting.log")
}
