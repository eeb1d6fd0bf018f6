package main

// Notes:
// - GenerateCompletion: we check each script names every command and the
//   enum values of --canvas. Scripts are not executed in a shell.
// - extractFlagsFromFlagSet: we test type mapping and metadata enrichment.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script generation per shell
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell  Shell
		marker string
	}{
		{ShellBash, "complete -F _marksnap marksnap"},
		{ShellZsh, "#compdef marksnap"},
		{ShellFish, "complete -c marksnap"},
		{ShellPowerShell, "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%s) error = %v", tt.shell, err)
			}
			out := buf.String()

			if !strings.Contains(out, tt.marker) {
				t.Errorf("script missing %q", tt.marker)
			}
			for _, cmd := range getCommands() {
				if !strings.Contains(out, cmd.Name) {
					t.Errorf("script missing command %q", cmd.Name)
				}
			}
			if !strings.Contains(out, "--canvas") {
				t.Error("script missing --canvas flag")
			}
		})
	}
}

func TestGenerateCompletion_CanvasValues(t *testing.T) {
	t.Parallel()

	for _, shell := range []Shell{ShellBash, ShellZsh, ShellFish} {
		var buf bytes.Buffer
		if err := GenerateCompletion(&buf, shell); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "auto mobile tablet desktop custom") {
			t.Errorf("%s script missing canvas mode values", shell)
		}
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(io.Discard, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("GenerateCompletion(tcsh) error = %v, want ErrUnsupportedShell", err)
	}
}

// ---------------------------------------------------------------------------
// TestExtractFlagsFromFlagSet - Flag metadata
// ---------------------------------------------------------------------------

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	fs, _ := buildExportFlagSet("export", io.Discard)
	flags := extractFlagsFromFlagSet(fs)

	byName := map[string]flagDef{}
	for _, f := range flags {
		byName[f.Long] = f
	}

	tests := []struct {
		name      string
		wantType  flagType
		wantShort string
	}{
		{"canvas", flagEnum, ""},
		{"config", flagFile, "c"},
		{"output", flagDir, "o"},
		{"asset-path", flagDir, ""},
		{"workers", flagNumber, "w"},
		{"pixel-ratio", flagNumber, ""},
		{"quiet", flagBool, "q"},
		{"theme", flagString, ""},
	}

	for _, tt := range tests {
		f, ok := byName[tt.name]
		if !ok {
			t.Errorf("flag --%s not extracted", tt.name)
			continue
		}
		if f.Type != tt.wantType {
			t.Errorf("--%s type = %v, want %v", tt.name, f.Type, tt.wantType)
		}
		if f.Short != tt.wantShort {
			t.Errorf("--%s short = %q, want %q", tt.name, f.Short, tt.wantShort)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion - Command entry point
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if err := runCompletion(nil, env.Environment); err != nil {
		t.Fatalf("runCompletion() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Usage: marksnap completion") {
		t.Errorf("stdout = %q, want usage", env.stdout)
	}

	env = newTestEnv("")
	if err := runCompletion([]string{"bash"}, env.Environment); err != nil {
		t.Fatalf("runCompletion(bash) error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "_marksnap") {
		t.Error("runCompletion(bash) should print the bash script")
	}
}
