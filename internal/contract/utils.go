package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/octocred/octocred/schema"
)

// Status label constants.
const (
	ExceedsValue    = "Exceeds"     // Exceeds the threshold with room to spare
	MeetsValue      = "Meets"       // Meets the threshold
	FallsShortValue = "Falls short" // Below the threshold
)

// Color variables for console output.
var (
	ExceedsColor    = color.New(color.FgGreen, color.Bold) // exceedsColor represents a strong pass.
	MeetsColor      = color.New(color.FgCyan)              // meetsColor represents a plain pass.
	FallsShortColor = color.New(color.FgRed, color.Bold)   // fallsShortColor represents a failed dimension.
)

// repoURLPattern extracts owner and name from a GitHub repository URL.
var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// GetPlainLabel returns a plain text label for a status. This is the core
// logic used for CSV, JSON, and table printing.
func GetPlainLabel(s schema.Status) string {
	switch s {
	case schema.ExceedsStatus:
		return ExceedsValue
	case schema.MeetsStatus:
		return MeetsValue
	default:
		return FallsShortValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(s schema.Status) string {
	text := GetPlainLabel(s)

	switch text {
	case ExceedsValue:
		return ExceedsColor.Sprint(text)
	case MeetsValue:
		return MeetsColor.Sprint(text)
	default: // "Falls short"
		return FallsShortColor.Sprint(text)
	}
}

// ParseRepoURL extracts the owner and name from a repository reference.
// It accepts full GitHub URLs and the short "owner/name" form, and strips
// a trailing ".git" suffix.
func ParseRepoURL(ref string) (owner, name string, err error) {
	ref = strings.TrimSpace(ref)

	if m := repoURLPattern.FindStringSubmatch(ref); m != nil {
		owner, name = m[1], m[2]
	} else {
		parts := strings.Split(strings.Trim(ref, "/"), "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("invalid repository reference %q: expected a GitHub URL or owner/name", ref)
		}
		owner, name = parts[0], parts[1]
	}

	name = strings.TrimSuffix(name, ".git")
	if name == "" {
		return "", "", fmt.Errorf("invalid repository reference %q: empty repository name", ref)
	}
	return owner, name, nil
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryCSVFilePath returns the path to the default CSV history file.
func GetHistoryCSVFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".octocred_history.csv"
	}
	return filepath.Join(homeDir, ".octocred_history.csv")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".octocred_history.db"
	}
	return filepath.Join(homeDir, ".octocred_history.db")
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
