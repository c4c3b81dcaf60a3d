package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appDirName = "wordtrie"

// PathResolver resolves dictionary and config locations relative to the
// running binary, the working directory and the user config dir.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a resolver anchored at the current executable.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appDirName)
		}
		return filepath.Join(homeDir, ".config", appDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appDirName)
	default:
		return filepath.Join(homeDir, ".config", appDirName)
	}
}

// ResolveDataPath finds a dictionary file or chunk directory.
// Candidates, in order:
// 1. the path as given (absolute or relative to the working dir)
// 2. relative to the executable dir
// 3. inside the config dir
func (pr *PathResolver) ResolveDataPath(userPath string) (string, error) {
	candidates := []string{userPath}
	if !filepath.IsAbs(userPath) {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, userPath),
			filepath.Join(pr.configDir, userPath),
		)
	}
	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Found dictionary at: %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}
	return "", fmt.Errorf("dictionary %q not found (tried %v)", userPath, candidates)
}

// ConfigPath returns filename inside the config dir, creating the dir.
func (pr *PathResolver) ConfigPath(filename string) (string, error) {
	if result := CheckDirStatus(pr.configDir); result.Writable {
		return filepath.Join(pr.configDir, filename), nil
	}
	log.Warnf("Config dir %s not writable, falling back to executable dir", pr.configDir)
	return filepath.Join(pr.executableDir, filename), nil
}

// ConfigDir returns the resolved config directory.
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}
