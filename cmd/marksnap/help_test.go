package main

// Notes:
// - runHelp / usage printers: we check that each command's help names the
//   command and its key flags. Exact wording is not pinned.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want []string
	}{
		{args: nil, want: []string{"Usage: marksnap", "export", "serve", "theme"}},
		{args: []string{"export"}, want: []string{"marksnap export", "--output", "--workers", "--canvas"}},
		{args: []string{"watch"}, want: []string{"marksnap watch"}},
		{args: []string{"preview"}, want: []string{"marksnap preview", "--style"}},
		{args: []string{"serve"}, want: []string{"marksnap serve", "--addr", "--metrics"}},
		{args: []string{"doc"}, want: []string{"marksnap doc", "set", "reset"}},
		{args: []string{"canvas"}, want: []string{"marksnap canvas", "--width"}},
		{args: []string{"theme"}, want: []string{"marksnap theme", "list", "use"}},
		{args: []string{"doctor"}, want: []string{"marksnap doctor", "--json"}},
		{args: []string{"completion"}, want: []string{"marksnap completion", "bash", "powershell"}},
		{args: []string{"version"}, want: []string{"marksnap version"}},
		{args: []string{"help"}, want: []string{"marksnap help"}},
	}

	for _, tt := range tests {
		name := "main"
		if len(tt.args) > 0 {
			name = tt.args[0]
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			runHelp(tt.args, env.Environment)

			out := env.stdout.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("help %v = %q, want to contain %q", tt.args, out, want)
				}
			}
		})
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	runHelp([]string{"frob"}, env.Environment)

	if !strings.Contains(env.stderr.String(), "Unknown command: frob") {
		t.Errorf("stderr = %q, want unknown command message", env.stderr)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.stdout)
	}
}

// ---------------------------------------------------------------------------
// TestPrintUsage - Main usage lists every command
// ---------------------------------------------------------------------------

func TestPrintUsage_ListsCommands(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)

	for name := range commands {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("usage does not mention command %q", name)
		}
	}
}
