package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// CheckInput verifies that the events document exists and is a readable file
func CheckInput(path string) error {
	if path == "" {
		return fmt.Errorf("no input file given\n" +
			"  Remediation: pass --input or set ALERTSCOPE_INPUT_PATH")
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.New(ClassifyInputError(err, path))
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory\n"+
			"  Remediation: point --input at the events document itself", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.New(ClassifyInputError(err, path))
	}
	return f.Close()
}

// EnsureOutputDir creates the output directory and verifies it is writable
func EnsureOutputDir(dir string, sugar *zap.SugaredLogger) (string, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s: %w", dir, err)
	}

	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w\n"+
			"  Remediation: Ensure the parent directory exists and is writable\n"+
			"  Run 'mkdir -p %s && chmod 755 %s'", dir, err, absPath, absPath)
	}

	testFile := filepath.Join(absPath, ".alertscope_write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return "", fmt.Errorf("directory %s is not writable: %w\n"+
			"  Remediation: Check file system permissions\n"+
			"  Run 'chmod -R u+w %s'", dir, err, absPath)
	}
	_ = os.Remove(testFile)

	sugar.Debugw("Output directory ready", "path", absPath)
	return absPath, nil
}

// ClassifyInputError turns a file access error into a message with
// remediation hints
func ClassifyInputError(err error, path string) string {
	if err == nil {
		return ""
	}
	absPath, _ := filepath.Abs(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("input file %s does not exist.\n"+
			"  Remediation:\n"+
			"  - Check the --input flag or ALERTSCOPE_INPUT_PATH\n"+
			"  - Relative paths resolve against %s", absPath, workingDir())
	case errors.Is(err, fs.ErrPermission):
		return fmt.Sprintf("permission denied reading %s.\n"+
			"  Remediation:\n"+
			"  - Check file permissions: ls -la %s\n"+
			"  - Run 'chmod u+r %s'", absPath, absPath, absPath)
	default:
		return fmt.Sprintf("cannot read input file %s: %v", absPath, err)
	}
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "the working directory"
	}
	return wd
}
