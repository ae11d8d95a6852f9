package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/colin4124/knitkit/pkg/errors"
)

const (
	// AppName names the knitkit directory inside each XDG base directory
	AppName = "knitkit"
	// LogFileName is the log file inside the state directory
	LogFileName = "knitkit.log"
	// EnvHome is consulted when the home directory cannot be determined otherwise
	EnvHome = "HOME"
)

// DataDir is where toolchain artifacts are looked up by default
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir holds the user settings file
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StateDir holds the log file
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// LogFilePath returns the default log file location
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// GetHomeDirectory returns the user's home directory
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrap(err, errors.ErrFilesystem, "failed to get home directory")
	}
	return homeDir, nil
}

// ExpandHome expands a leading "~" or "~/" to the home directory.
// Other paths, including "~user/...", are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
