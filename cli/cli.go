// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package cli provides helpers for creating simple, single-command
// command-line applications.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"go.astrophena.name/laststamp/logger"
	"go.astrophena.name/laststamp/syncx"
	"go.astrophena.name/laststamp/version"
)

// Exit codes returned by [ExitCode].
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Main runs an application, handling signal-based cancellation and printing errors
// to stderr. It is intended to be called directly from a program's main function.
func Main(app App) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := Run(ctx, app)
	if err != nil && isPrintableError(err) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", version.CmdName(), err)
	}
	if code := ExitCode(err); code != ExitOK {
		cancel()
		os.Exit(code)
	}
}

// ExitCode maps an error returned by [Run] to a process exit status.
//
// Invalid arguments, including flags the flag package failed to parse, map
// to [ExitUsage]. Requests for help or version information are successful.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp), errors.Is(err, ErrExitVersion):
		return ExitOK
	case errors.Is(err, ErrInvalidArgs):
		return ExitUsage
	}
	var fe *flagError
	if errors.As(err, &fe) {
		return ExitUsage
	}
	return ExitError
}

type unprintableError struct{ err error }

func (e *unprintableError) Error() string { return e.err.Error() }
func (e *unprintableError) Unwrap() error { return e.err }

// flagError is a flag parsing failure. The flag package has already printed it.
type flagError struct{ unprintableError }

func isPrintableError(err error) bool {
	if errors.Is(err, flag.ErrHelp) {
		return false
	}
	var ue *unprintableError
	if errors.As(err, &ue) {
		return false
	}
	var fe *flagError
	return !errors.As(err, &fe)
}

// ErrExitVersion signals that the application should exit successfully after
// printing the version information.
var ErrExitVersion = &unprintableError{errors.New("version flag exit")}

// ErrInvalidArgs indicates that the user provided invalid command-line
// arguments. It should be wrapped with more specific context about the error.
var ErrInvalidArgs = errors.New("invalid arguments")

// App represents a runnable command-line application.
type App interface {
	// Run executes the application's primary logic.
	Run(context.Context) error
}

// HasFlags is an App that can define its own command-line flags.
type HasFlags interface {
	App

	// Flags registers flags with the given FlagSet.
	Flags(*flag.FlagSet)
}

// AppFunc is an adapter to allow the use of ordinary functions as an App.
type AppFunc func(context.Context) error

// Run calls the underlying function.
func (f AppFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type ctxKey int

var envKey ctxKey

// GetEnv retrieves the application's environment from a context.
// If the context has no environment, it returns one based on the current OS.
func GetEnv(ctx context.Context) *Env {
	e, ok := ctx.Value(envKey).(*Env)
	if !ok {
		return OSEnv()
	}
	return e
}

// WithEnv returns a new context that carries the provided application environment.
func WithEnv(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// Env encapsulates the application's environment, including arguments,
// standard I/O streams, and environment variables.
type Env struct {
	Args   []string
	Getenv func(string) string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSEnv creates an Env based on the current operating system environment.
func OSEnv() *Env {
	return &Env{
		Args:   os.Args[1:],
		Getenv: os.Getenv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (e *Env) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// IsTerminal reports whether the file descriptor is a terminal.
// It can be replaced in tests.
var IsTerminal = term.IsTerminal

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && IsTerminal(int(f.Fd()))
}

// Run executes an application. It parses flags, handles standard flags like
// -version and -v, installs a logger writing to the environment's standard
// error, and then runs the app.
func Run(ctx context.Context, app App) error {
	name := version.CmdName()

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	if fa, ok := app.(HasFlags); ok {
		fa.Flags(flags)
	}

	var showVersion, verbose bool
	if flags.Lookup("version") == nil {
		flags.BoolVar(&showVersion, "version", false, "Show version.")
	}
	if flags.Lookup("v") == nil {
		flags.BoolVar(&verbose, "v", false, "Enable debug logging.")
	}

	env := GetEnv(ctx)

	flags.Usage = usage(flags, env.Stderr)
	flags.SetOutput(env.Stderr)
	if err := flags.Parse(env.Args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		// Already printed to stderr by flag package.
		return &flagError{unprintableError{err}}
	}

	if showVersion {
		fmt.Fprint(env.Stderr, version.Version())
		return ErrExitVersion
	}

	env.Args = flags.Args()

	l := newLogger(env)
	if verbose {
		l.Level.Set(slog.LevelDebug)
	}
	ctx = logger.Put(ctx, l)

	return app.Run(WithEnv(ctx, env))
}

func newLogger(env *Env) *logger.Logger {
	l := logger.New(nil)
	l.Attach(tint.NewHandler(env.Stderr, &tint.Options{
		Level:   l.Level,
		NoColor: env.getenv("NO_COLOR") != "" || !isTerminal(env.Stderr),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// One-shot tools don't need timestamps.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	return l
}

func usage(flags *flag.FlagSet, stderr io.Writer) func() {
	return func() {
		if docSrc != nil {
			fmt.Fprintf(stderr, "%s\n", doc.Get(parseDocComment))
		}
		fmt.Fprint(stderr, "Available flags:\n\n")
		flags.PrintDefaults()
	}
}

var (
	docSrc []byte
	doc    syncx.Lazy[string]
)

// SetDocComment sets the main documentation for the application, which is
// displayed when a user passes the -help flag. It is intended to be used with
// Go's //go:embed directive.
//
// Example:
//
//	//go:embed doc.go
//	var doc []byte
//
//	func init() { cli.SetDocComment(doc) }
func SetDocComment(src []byte) {
	docSrc = src
	doc = syncx.Lazy[string]{}
}

func parseDocComment() string {
	s := bufio.NewScanner(bytes.NewReader(docSrc))
	var (
		doc       string
		inComment bool
	)
	for s.Scan() {
		line := s.Text()
		if line == "/*" {
			inComment = true
			continue
		}
		if line == "*/" {
			break
		}
		if inComment {
			doc += line + "\n"
		}
	}
	if err := s.Err(); err != nil {
		panic(err)
	}
	return doc
}
