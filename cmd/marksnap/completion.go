package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alnah/go-marksnap"
	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagNumber
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Subcommands []string
	FilePattern string // glob for file arguments, empty if none
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"canvas": {Values: canvasModeNames()},
	"style":  {Values: []string{"dark", "light", "dracula", "tokyo-night", "notty", "ascii"}},

	"config": {FileGlob: "*.yaml,*.yml"},
	"store":  {FileGlob: "*.db"},
	"watch":  {FileGlob: "*.md,*.markdown"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

func canvasModeNames() []string {
	modes := marksnap.CanvasModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "float64":
			fd.Type = flagNumber
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	exportFS, _ := buildExportFlagSet("export", io.Discard)
	watchFS, _ := buildExportFlagSet("watch", io.Discard)
	serveFS, _ := buildServeFlagSet(io.Discard)
	previewFS, _ := buildPreviewFlagSet(io.Discard)
	docFS, _ := buildSettingsFlagSet("doc", io.Discard, printDocUsage)
	canvasFS, _ := buildSettingsFlagSet("canvas", io.Discard, printCanvasUsage)
	themeFS, _ := buildSettingsFlagSet("theme", io.Discard, printThemeUsage)

	return []commandDef{
		{Name: "export", Desc: "Export segments as PNG images", Flags: extractFlagsFromFlagSet(exportFS), FilePattern: "*.md,*.markdown"},
		{Name: "preview", Desc: "Show segments in the terminal", Flags: extractFlagsFromFlagSet(previewFS), FilePattern: "*.md,*.markdown"},
		{Name: "serve", Desc: "Start the preview server", Flags: extractFlagsFromFlagSet(serveFS)},
		{Name: "watch", Desc: "Re-export a file on change", Flags: extractFlagsFromFlagSet(watchFS), FilePattern: "*.md,*.markdown"},
		{Name: "doc", Desc: "Show or replace the stored document", Flags: extractFlagsFromFlagSet(docFS), Subcommands: []string{"show", "set", "reset"}},
		{Name: "canvas", Desc: "Show or change the canvas", Flags: extractFlagsFromFlagSet(canvasFS), Subcommands: canvasModeNames()},
		{Name: "theme", Desc: "List, show, or change the theme", Flags: extractFlagsFromFlagSet(themeFS), Subcommands: []string{"list", "show", "use", "reset"}},
		{Name: "doctor", Desc: "Check the environment", Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print results as JSON"}}},
		{Name: "completion", Desc: "Generate shell completion script", Subcommands: []string{"bash", "zsh", "fish", "powershell"}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	sort.Strings(words)
	return words
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for marksnap\n")
	b.WriteString("_marksnap() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	fmt.Fprintf(&b, "  if [[ $COMP_CWORD -eq 1 ]]; then\n    COMPREPLY=($(compgen -W %q -- \"$cur\"))\n    return\n  fi\n\n", strings.Join(commandNames(cmds), " "))

	b.WriteString("  case \"$prev\" in\n")
	for _, name := range sortedMetaKeys() {
		meta := flagCompletionMeta[name]
		switch {
		case len(meta.Values) > 0:
			fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", name, strings.Join(meta.Values, " "))
		case meta.IsDir:
			fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", name)
		default:
			fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", name)
		}
	}
	b.WriteString("  esac\n\n")

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		words := append(flagWords(c.Flags), c.Subcommands...)
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		fmt.Fprintf(&b, "      COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words, " "))
		if c.FilePattern != "" {
			b.WriteString("      [[ \"$cur\" != -* ]] && COMPREPLY+=($(compgen -f -- \"$cur\"))\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n}\n")
	b.WriteString("complete -F _marksnap marksnap\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef marksnap\n\n")
	b.WriteString("_marksnap() {\n")
	b.WriteString("  local -a commands\n  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n    _describe 'command' commands\n    return\n  fi\n\n")
	b.WriteString("  case \"$words[2]\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		switch {
		case len(c.Subcommands) > 0:
			fmt.Fprintf(&b, "        '1:subcommand:(%s)'\n", strings.Join(c.Subcommands, " "))
		case c.FilePattern != "":
			b.WriteString("        '*:file:_files -g \"*.md *.markdown\"'\n")
		default:
			b.WriteString("        && return\n")
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("  esac\n}\n\n_marksnap \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagDir:
		return ":directory:_directories"
	case flagFile:
		return ":file:_files"
	default:
		return ":value:"
	}
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for marksnap\n")
	b.WriteString("complete -c marksnap -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c marksnap -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("__fish_seen_subcommand_from %s", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c marksnap -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagFile:
				line += " -r -F"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
		if len(c.Subcommands) > 0 {
			fmt.Fprintf(&b, "complete -c marksnap -n '%s' -a '%s'\n", cond, strings.Join(c.Subcommands, " "))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c marksnap -n '%s' -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for marksnap\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName marksnap -ScriptBlock {\n")
	b.WriteString("  param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("  $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("  $candidates = @{\n")
	for _, c := range cmds {
		words := append(flagWords(c.Flags), c.Subcommands...)
		quoted := make([]string, len(words))
		for i, word := range words {
			quoted[i] = "'" + word + "'"
		}
		fmt.Fprintf(&b, "    '%s' = @(%s)\n", c.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("  }\n")
	b.WriteString("  if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("    $list = $candidates.Keys\n")
	b.WriteString("  } else {\n")
	b.WriteString("    $list = $candidates[$words[1]]\n")
	b.WriteString("  }\n")
	b.WriteString("  $list | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("    [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("  }\n}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func sortedMetaKeys() []string {
	keys := make([]string, 0, len(flagCompletionMeta))
	for k := range flagCompletionMeta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(marksnap completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(marksnap completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    marksnap completion fish > ~/.config/fish/completions/marksnap.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    marksnap completion powershell | Out-String | Invoke-Expression")
}
