package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/amterp/elysian/internal/model"
)

// commentPrefix marks template lines dropped from the edited text.
const commentPrefix = "#"

// ImportTemplate is the starting buffer for bulk import editing.
const ImportTemplate = `# One card per line, question and answer separated by the first colon.
# Lines starting with '#' are ignored. Save and quit to import.
#
# What is the powerhouse of the cell?: Mitochondria
`

// Editor handles editor resolution and invocation.
type Editor struct {
	globalConfig *model.GlobalConfig
	getenv       func(string) string
}

// NewEditor creates a new Editor.
func NewEditor(globalConfig *model.GlobalConfig) *Editor {
	return &Editor{globalConfig: globalConfig, getenv: os.Getenv}
}

// Resolve returns the editor command to use.
// Order: global config > $VISUAL > $EDITOR > vim
func (e *Editor) Resolve() string {
	if e.globalConfig != nil && strings.TrimSpace(e.globalConfig.Editor) != "" {
		return e.globalConfig.Editor
	}

	for _, key := range []string{"VISUAL", "EDITOR"} {
		if editor := e.getenv(key); strings.TrimSpace(editor) != "" {
			return editor
		}
	}

	return "vim"
}

// Edit opens the editor with the given content and returns the edited
// content with comment lines removed.
func (e *Editor) Edit(content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "elysian-import-*.txt")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// Allow commands with arguments, e.g. "code --wait"
	parts := strings.Fields(e.Resolve())
	cmd := exec.Command(parts[0], append(parts[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", parts[0], err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}

	return StripComments(string(edited)), nil
}

// StripComments drops lines whose first non-blank character is '#'.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), commentPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
