package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repohealth/schema"
)

// Color variables for console output, one per grade.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // ExcellentColor represents grade A.
	GoodColor      = color.New(color.FgBlue, color.Bold)  // GoodColor represents grade B.
	FairColor      = color.New(color.FgYellow)            // FairColor represents grade C, not bold.
	PoorColor      = color.New(color.FgHiRed)             // PoorColor represents grade D.
	CriticalColor  = color.New(color.FgRed, color.Bold)   // CriticalColor represents grade E.
)

// GetPlainLabel returns the display label of a grade.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(g schema.Grade) string {
	return schema.LookupGradeBand(g).Label
}

// GetColorLabel returns a colored grade and label for console output (table).
func GetColorLabel(g schema.Grade) string {
	text := fmt.Sprintf("%s %s", g, GetPlainLabel(g))

	switch g {
	case schema.GradeA:
		return ExcellentColor.Sprint(text)
	case schema.GradeB:
		return GoodColor.Sprint(text)
	case schema.GradeC:
		return FairColor.Sprint(text)
	case schema.GradeD:
		return PoorColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
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

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repohealth_cache.db"
	}
	return filepath.Join(homeDir, ".repohealth_cache.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repohealth_snapshots.db"
	}
	return filepath.Join(homeDir, ".repohealth_snapshots.db")
}
