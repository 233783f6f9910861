package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Label constants for author roles.
const (
	CoreValue       = "Core"
	PeripheralValue = "Peripheral"
)

// DateTimeFormat is the timestamp layout of CSV output and status reports.
const DateTimeFormat = "2006-01-02 15:04:05"

// Color variables for console output.
var (
	CoreColor       = color.New(color.FgRed, color.Bold)
	PeripheralColor = color.New(color.FgCyan)
)

// GetPlainLabel returns the role label of an author. This is the core
// logic used for CSV, JSON, and table printing.
func GetPlainLabel(core bool) string {
	if core {
		return CoreValue
	}
	return PeripheralValue
}

// GetColorLabel returns a colored role label for console output (table).
func GetColorLabel(core bool) string {
	text := GetPlainLabel(core)
	if core {
		return CoreColor.Sprint(text)
	}
	return PeripheralColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the login cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".coredev_cache.db"
	}
	return filepath.Join(homeDir, ".coredev_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".coredev_analysis.db"
	}
	return filepath.Join(homeDir, ".coredev_analysis.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis prefix.
// Requires maxWidth > 3 to leave room for the prefix and one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
