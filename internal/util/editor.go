package util

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// OpenEditor runs editor on filePath attached to the terminal. The editor
// may carry arguments, e.g. "code --wait".
func OpenEditor(editor, filePath string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured")
	}

	c := exec.Command(parts[0], append(parts[1:], filePath)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor (%s): %w", filePath, err)
	}
	return nil
}
