// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest runs table-driven tests against a [cli.App].
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.astrophena.name/laststamp/cli"
)

// Case describes a single run of an application of type T.
type Case[T cli.App] struct {
	// Args are the command-line arguments, without the program name.
	Args []string
	// Stdin is the standard input. Empty if nil.
	Stdin io.Reader
	// Env holds environment variables visible through Env.Getenv.
	Env map[string]string

	// WantErr, if set, must match the returned error with errors.Is.
	WantErr error
	// WantErrType, if set, must match the returned error with errors.As.
	WantErrType error
	// WantExitCode, if non-zero, must equal cli.ExitCode of the returned error.
	WantExitCode int
	// WantInStdout must be a substring of standard output.
	WantInStdout string
	// WantInStderr must be a substring of standard error.
	WantInStderr string
	// WantNothingPrinted requires both standard output and standard error to
	// be empty.
	WantNothingPrinted bool
	// CheckFunc is called with the application after a run.
	CheckFunc func(*testing.T, T)
}

// Run runs every case in cases as a subtest. A fresh application for each
// case is returned by setup.
//
// Unless a case sets WantErr, WantErrType or WantExitCode, the application
// must succeed.
func Run[T cli.App](t *testing.T, setup func(*testing.T) T, cases map[string]Case[T]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}
			var stdout, stderr bytes.Buffer
			ctx := cli.WithEnv(context.Background(), &cli.Env{
				Args:   tc.Args,
				Getenv: func(key string) string { return tc.Env[key] },
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
			})

			err := cli.Run(ctx, app)

			checkErr(t, tc, err)
			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}
			if tc.WantNothingPrinted && (stdout.Len() > 0 || stderr.Len() > 0) {
				t.Errorf("want nothing printed, got stdout %q and stderr %q", stdout.String(), stderr.String())
			}
			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}

func checkErr[T cli.App](t *testing.T, tc Case[T], err error) {
	t.Helper()

	expectsErr := tc.WantErr != nil || tc.WantErrType != nil || tc.WantExitCode != cli.ExitOK
	if !expectsErr {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}

	if tc.WantErr != nil && !errors.Is(err, tc.WantErr) {
		t.Fatalf("want error %v, got %v", tc.WantErr, err)
	}
	if tc.WantErrType != nil {
		target := reflect.New(reflect.TypeOf(tc.WantErrType))
		if !errors.As(err, target.Interface()) {
			t.Fatalf("want error of type %T, got %T (%v)", tc.WantErrType, err, err)
		}
	}
	if tc.WantExitCode != cli.ExitOK {
		if got := cli.ExitCode(err); got != tc.WantExitCode {
			t.Fatalf("want exit code %d, got %d (error: %v)", tc.WantExitCode, got, err)
		}
	}
}
