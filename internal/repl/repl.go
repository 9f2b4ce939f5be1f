// Package repl implements the interactive word filtering prompt.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stacklok/wordfinder/internal/filtering"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

const (
	prompt = "Enter command: "
	// previewLimit caps how many words are echoed after a filter command
	previewLimit = 50
)

type command struct {
	usage       string
	description string
	needsArg    bool
	run         func(r *REPL, ctx context.Context, arg string) error
}

// commands is filled in init because help refers back to it
var commands map[string]command

func init() {
	commands = map[string]command{
		"exclude": {
			usage:       "exclude <letters>",
			description: "Remove words containing any of the letters.",
			needsArg:    true,
			run:         (*REPL).exclude,
		},
		"include": {
			usage:       "include <letters>",
			description: "Keep words containing all of the letters. Repeat a letter to require it more than once.",
			needsArg:    true,
			run:         (*REPL).include,
		},
		"length": {
			usage:       "length <number>",
			description: "Keep words with exactly this many letters. 0 keeps every length.",
			needsArg:    true,
			run:         (*REPL).length,
		},
		"pattern": {
			usage:       "pattern <pattern>",
			description: "Keep words matching the pattern. '?' matches any letter, other letters must match their position.",
			needsArg:    true,
			run:         (*REPL).pattern,
		},
		"list": {
			usage:       "list",
			description: "Display the current list of words.",
			run:         (*REPL).list,
		},
		"status": {
			usage:       "status",
			description: "Show the letters and pattern applied so far.",
			run:         (*REPL).status,
		},
		"explain": {
			usage:       "explain <word>",
			description: "Tell whether a word passes the letters and pattern applied so far, and why.",
			needsArg:    true,
			run:         (*REPL).explain,
		},
		"save": {
			usage:       "save <filename>",
			description: "Write the current list of words to a file, one per line.",
			needsArg:    true,
			run:         (*REPL).save,
		},
		"reset": {
			usage:       "reset",
			description: "Drop all filters and reload the original list of words.",
			run:         (*REPL).reset,
		},
		"help": {
			usage:       "help",
			description: "Show this help.",
			run:         (*REPL).help,
		},
	}
}

// commandOrder is the order commands are listed by help
var commandOrder = []string{
	"exclude", "include", "length", "pattern", "list", "status", "explain", "save", "reset", "help",
}

var aliases = map[string]string{
	"contains": "include",
	"quit":     "exit",
}

// errExit ends the loop without an error
var errExit = errors.New("exit")

// REPL reads filter commands and applies them to a word list
type REPL struct {
	source   wordlist.Source
	language string
	length   int

	in     *bufio.Scanner
	out    io.Writer
	styles tileStyles

	engine *filtering.Engine
	words  []string
}

// New creates a REPL over the words source returns for language and length
func New(source wordlist.Source, language string, length int, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		source:   source,
		language: language,
		length:   length,
		in:       bufio.NewScanner(in),
		out:      out,
		styles:   newTileStyles(lipgloss.NewRenderer(out)),
	}
}

// Run loads the words and processes commands until exit, end of input or
// context cancellation
func (r *REPL) Run(ctx context.Context) error {
	if err := r.load(ctx); err != nil {
		return err
	}
	r.printf("Loaded %d words from %s. Type 'help' to see the list of available commands.\n",
		len(r.words), r.source.GetSource())

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		r.printf("%s", prompt)
		if !r.in.Scan() {
			r.printf("\n")
			return r.in.Err()
		}

		err := r.Execute(ctx, r.in.Text())
		if errors.Is(err, errExit) {
			r.printf("Exiting program.\n")
			return nil
		}
		if err != nil {
			r.printf("Error: %v\n", err)
		}
	}
}

// Execute runs a single command line. Command errors are returned so the
// caller can report them and carry on.
func (r *REPL) Execute(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	if name == "" {
		return nil
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if name == "exit" {
		return errExit
	}

	cmd, ok := commands[name]
	if !ok {
		r.printf("Unknown command. Type 'help' to see the list of available commands.\n")
		return nil
	}
	if cmd.needsArg && arg == "" {
		return fmt.Errorf("usage: %s", cmd.usage)
	}

	slog.Debug("Running command", "command", name, "argument", arg)
	return cmd.run(r, ctx, arg)
}

// Words returns the current word list
func (r *REPL) Words() []string {
	return r.words
}

func (r *REPL) load(ctx context.Context) error {
	words, err := r.source.Words(ctx, r.language, r.length)
	if err != nil {
		return fmt.Errorf("failed to load words: %w", err)
	}
	r.engine = filtering.NewEngine()
	r.words = words
	return nil
}

func (r *REPL) exclude(_ context.Context, letters string) error {
	return r.applyLetters(letters, r.engine.ExcludeLetters)
}

func (r *REPL) include(_ context.Context, letters string) error {
	return r.applyLetters(letters, r.engine.IncludeLetters)
}

func (r *REPL) applyLetters(letters string, apply func([]string, string) ([]string, error)) error {
	words, err := apply(r.words, letters)
	var conflict *filtering.ConflictError
	if errors.As(err, &conflict) {
		r.printf("Cannot apply: %v. Type 'reset' to start over.\n", conflict)
		return nil
	}
	if err != nil {
		return err
	}
	r.words = words
	r.printUpdated()
	return nil
}

func (r *REPL) length(_ context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return errors.New("length must be a number")
	}
	r.words = r.engine.ByLength(r.words, n)
	r.printUpdated()
	return nil
}

func (r *REPL) pattern(_ context.Context, pattern string) error {
	words, report := r.engine.ByPattern(r.words, pattern)
	r.words = words
	if report.HasContradictions() {
		r.printf("Warning: pattern fixes excluded letters %s.\n", report.Contradictions)
	}
	if report.Unsatisfiable != "" {
		r.printf("Warning: pattern leaves no room for included letters %s.\n", report.Unsatisfiable)
	}
	r.printUpdated()
	return nil
}

func (r *REPL) list(context.Context, string) error {
	r.printf("Words (%d): %s\n", len(r.words), strings.Join(r.words, " "))
	return nil
}

func (r *REPL) status(context.Context, string) error {
	r.printf("%s", r.styles.render(r.engine.Snapshot(), len(r.words)))
	return nil
}

func (r *REPL) explain(_ context.Context, word string) error {
	word = strings.ToUpper(word)
	ok, reason := r.engine.Explain(word)
	verdict := "rejected"
	if ok {
		verdict = "kept"
	}
	r.printf("%s is %s: %s.\n", word, verdict, reason)
	return nil
}

func (r *REPL) save(_ context.Context, path string) error {
	if err := wordlist.WriteFile(path, r.words); err != nil {
		return err
	}
	r.printf("Saved %d words to %s.\n", len(r.words), path)
	return nil
}

func (r *REPL) reset(ctx context.Context, _ string) error {
	if err := r.load(ctx); err != nil {
		return err
	}
	r.printf("Words reset to original list (%d words).\n", len(r.words))
	return nil
}

func (r *REPL) help(context.Context, string) error {
	r.printf("Available commands:\n")
	for _, name := range commandOrder {
		cmd := commands[name]
		r.printf("- %s:\n  %s\n", cmd.usage, cmd.description)
	}
	r.printf("- exit:\n  Exit the program.\n")
	return nil
}

func (r *REPL) printUpdated() {
	preview := r.words
	suffix := ""
	if len(preview) > previewLimit {
		suffix = fmt.Sprintf(" ... and %d more", len(preview)-previewLimit)
		preview = preview[:previewLimit]
	}
	r.printf("Updated words (%d): %s%s\n", len(r.words), strings.Join(preview, " "), suffix)
}

func (r *REPL) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
