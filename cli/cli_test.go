// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package cli_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"testing"

	"go.astrophena.name/laststamp/cli"
	"go.astrophena.name/laststamp/logger"
	"go.astrophena.name/laststamp/testutil"
	"go.astrophena.name/laststamp/version"
)

func runTest(t *testing.T, app cli.App, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errb bytes.Buffer
	env := &cli.Env{
		Args:   args,
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errb,
		Getenv: func(s string) string { return "" },
	}
	ctx := cli.WithEnv(context.Background(), env)

	runErr := cli.Run(ctx, app)

	return out.String(), errb.String(), runErr
}

// simpleApp prints its args to stdout.
type simpleApp struct{}

func (a *simpleApp) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	for _, arg := range env.Args {
		fmt.Fprintln(env.Stdout, arg)
	}
	return nil
}

// appWithFlags has some flags.
type appWithFlags struct {
	s string
	b bool
	i int
}

func (a *appWithFlags) Flags(f *flag.FlagSet) {
	f.StringVar(&a.s, "s", "default", "string flag")
	f.BoolVar(&a.b, "b", false, "bool flag")
	f.IntVar(&a.i, "i", 0, "int flag")
}

func (a *appWithFlags) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	fmt.Fprintf(env.Stdout, "s=%s, b=%v, i=%d", a.s, a.b, a.i)
	if len(env.Args) > 0 {
		fmt.Fprintf(env.Stdout, ", args=%v", env.Args)
	}
	return nil
}

var errAppFailed = errors.New("app failed deliberately")

// failingApp always returns an error.
var failingApp = cli.AppFunc(func(ctx context.Context) error {
	return errAppFailed
})

// invalidArgsApp returns ErrInvalidArgs.
var invalidArgsApp = cli.AppFunc(func(ctx context.Context) error {
	return fmt.Errorf("%w: missing filename", cli.ErrInvalidArgs)
})

// loggingApp logs at info and debug levels.
var loggingApp = cli.AppFunc(func(ctx context.Context) error {
	logger.Info(ctx, "visible")
	logger.Debug(ctx, "verbose only")
	return nil
})

func TestRun(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		stdout, stderr, err := runTest(t, &simpleApp{}, "hello", "world")
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, stderr, "")
		testutil.AssertEqual(t, stdout, "hello\nworld\n")
	})

	t.Run("double dash flags", func(t *testing.T) {
		stdout, _, err := runTest(t, &appWithFlags{}, "--b", "--s=bar", "arg")
		testutil.AssertEqual(t, err, nil)
		testutil.AssertEqual(t, stdout, "s=bar, b=true, i=0, args=[arg]")
	})

	t.Run("failing", func(t *testing.T) {
		_, _, err := runTest(t, failingApp)
		if !errors.Is(err, errAppFailed) {
			t.Fatalf("want err %v, got %v", errAppFailed, err)
		}
		testutil.AssertEqual(t, cli.ExitCode(err), cli.ExitError)
	})

	t.Run("invalid args", func(t *testing.T) {
		_, stderr, err := runTest(t, invalidArgsApp)
		if !errors.Is(err, cli.ErrInvalidArgs) {
			t.Fatalf("want err to wrap cli.ErrInvalidArgs, got %v", err)
		}
		testutil.AssertEqual(t, err.Error(), "invalid arguments: missing filename")
		testutil.AssertEqual(t, stderr, "") // Run itself doesn't print the error.
		testutil.AssertEqual(t, cli.ExitCode(err), cli.ExitUsage)
	})

	t.Run("app with flags", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			stdout, _, err := runTest(t, &appWithFlags{})
			testutil.AssertEqual(t, err, nil)
			testutil.AssertEqual(t, stdout, "s=default, b=false, i=0")
		})
		t.Run("with flags and args", func(t *testing.T) {
			stdout, _, err := runTest(t, &appWithFlags{}, "-s", "foo", "-b", "arg1", "arg2")
			testutil.AssertEqual(t, err, nil)
			testutil.AssertEqual(t, stdout, "s=foo, b=true, i=0, args=[arg1 arg2]")
		})
		t.Run("invalid flag value", func(t *testing.T) {
			_, stderr, err := runTest(t, &appWithFlags{}, "-i", "not-an-int")
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			wantInStderr := "invalid value \"not-an-int\" for flag -i: parse error"
			if !strings.Contains(stderr, wantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", wantInStderr, stderr)
			}
			testutil.AssertEqual(t, cli.ExitCode(err), cli.ExitUsage)
		})
		t.Run("unknown flag", func(t *testing.T) {
			_, stderr, err := runTest(t, &appWithFlags{}, "-nope")
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !strings.Contains(stderr, "flag provided but not defined: -nope") {
				t.Errorf("unexpected stderr: %q", stderr)
			}
			testutil.AssertEqual(t, cli.ExitCode(err), cli.ExitUsage)
		})
	})

	t.Run("version flag", func(t *testing.T) {
		_, stderr, err := runTest(t, &simpleApp{}, "-version")
		if !errors.Is(err, cli.ErrExitVersion) {
			t.Fatalf("want err %v, got %v", cli.ErrExitVersion, err)
		}
		testutil.AssertEqual(t, stderr, version.Version().String())
		testutil.AssertEqual(t, cli.ExitCode(err), cli.ExitOK)
	})

	t.Run("help flag", func(t *testing.T) {
		_, stderr, err := runTest(t, &simpleApp{}, "-h")
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected error to wrap flag.ErrHelp, but it didn't: %v", err)
		}
		if !strings.Contains(stderr, "Available flags:") {
			t.Errorf("stderr must contain 'Available flags:', got: %q", stderr)
		}
		testutil.AssertEqual(t, cli.ExitCode(err), cli.ExitOK)
	})

	t.Run("doc comment", func(t *testing.T) {
		const doc = "/*\nMy Test App\nThis is a test application.\n*/\npackage main"
		cli.SetDocComment([]byte(doc))
		t.Cleanup(func() {
			cli.SetDocComment(nil)
		})

		_, stderr, err := runTest(t, &simpleApp{}, "-h")
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("expected error to wrap flag.ErrHelp, but it didn't: %v", err)
		}

		wantDoc := "My Test App\nThis is a test application.\n"
		if !strings.Contains(stderr, wantDoc) {
			t.Errorf("stderr must contain doc comment %q, got: %q", wantDoc, stderr)
		}
	})

	t.Run("logging", func(t *testing.T) {
		t.Run("info", func(t *testing.T) {
			_, stderr, err := runTest(t, loggingApp)
			testutil.AssertEqual(t, err, nil)
			testutil.AssertEqual(t, stderr, "INF visible\n")
		})
		t.Run("verbose", func(t *testing.T) {
			_, stderr, err := runTest(t, loggingApp, "-v")
			testutil.AssertEqual(t, err, nil)
			testutil.AssertEqual(t, stderr, "INF visible\nDBG verbose only\n")
		})
	})
}

func TestExitCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"nil":           {nil, cli.ExitOK},
		"help":          {flag.ErrHelp, cli.ExitOK},
		"version":       {cli.ErrExitVersion, cli.ExitOK},
		"invalid args":  {fmt.Errorf("%w: bad", cli.ErrInvalidArgs), cli.ExitUsage},
		"generic error": {errors.New("boom"), cli.ExitError},
		"wrapped error": {fmt.Errorf("writing: %w", errAppFailed), cli.ExitError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, cli.ExitCode(tc.err), tc.want)
		})
	}
}
