// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.astrophena.name/laststamp/cli"
	"go.astrophena.name/laststamp/stamp"
)

const defaultTarget = "README.md"

func main() { cli.Main(new(app)) }

type app struct {
	printDate bool
	dry       bool
	date      string

	now func() time.Time // time.Now if nil
}

func (a *app) Flags(flags *flag.FlagSet) {
	flags.BoolVar(&a.printDate, "print-date", false, "Print the applied date to stdout.")
	flags.BoolVar(&a.dry, "dry", false, "Report whether the file would change, without writing it.")
	flags.StringVar(&a.date, "date", "", "Apply `YYYY-MM-DD` instead of today's UTC date.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	target := defaultTarget
	switch len(env.Args) {
	case 0:
	case 1:
		target = env.Args[0]
	default:
		return fmt.Errorf("%w: at most one target allowed, got %q", cli.ErrInvalidArgs, env.Args)
	}
	if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: README file not found: %s", cli.ErrInvalidArgs, target)
	}

	date, err := a.resolveDate()
	if err != nil {
		return err
	}

	var opts []stamp.Option
	if a.dry {
		opts = append(opts, stamp.DryRun())
	}
	if _, err := stamp.UpdateFile(ctx, target, date, opts...); err != nil {
		return err
	}

	if a.printDate {
		fmt.Fprintln(env.Stdout, date)
	}
	return nil
}

// resolveDate returns the date to apply, computed once per run.
func (a *app) resolveDate() (string, error) {
	if a.date != "" {
		if _, err := time.Parse(time.DateOnly, a.date); err != nil {
			return "", fmt.Errorf("%w: -date must be YYYY-MM-DD, got %q", cli.ErrInvalidArgs, a.date)
		}
		return a.date, nil
	}
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	return stamp.Today(now()), nil
}
