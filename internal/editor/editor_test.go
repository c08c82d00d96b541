package editor

import (
	"testing"

	"github.com/amterp/elysian/internal/model"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		config   *model.GlobalConfig
		env      map[string]string
		expected string
	}{
		{"config wins", &model.GlobalConfig{Editor: "nano"}, map[string]string{"EDITOR": "vi"}, "nano"},
		{"visual before editor", nil, map[string]string{"VISUAL": "code --wait", "EDITOR": "vi"}, "code --wait"},
		{"editor", &model.GlobalConfig{}, map[string]string{"EDITOR": "emacs"}, "emacs"},
		{"blank config ignored", &model.GlobalConfig{Editor: "  "}, nil, "vim"},
		{"default", nil, nil, "vim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(tt.config)
			e.getenv = func(key string) string { return tt.env[key] }

			if got := e.Resolve(); got != tt.expected {
				t.Errorf("Resolve() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStripComments(t *testing.T) {
	got := StripComments(ImportTemplate + "Q1: A1\n  # indented comment\nQ2: A2")
	want := "Q1: A1\nQ2: A2"
	if got != want {
		t.Errorf("StripComments = %q, want %q", got, want)
	}
}
