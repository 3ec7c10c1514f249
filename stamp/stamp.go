// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package stamp maintains a "Last updated: YYYY-MM-DD" line in a text
// document.
//
// A stamp line is any line that, with surrounding whitespace removed, matches
// [Pattern]. [Apply] rewrites every stamp line to carry a new date, or appends
// one when the document has none. [UpdateFile] does the same for a file on
// disk and writes it back only when its content changes.
package stamp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"go.astrophena.name/laststamp/logger"
)

// Pattern matches a trimmed stamp line. Matching is case-insensitive.
// Space separators such as U+00A0 count as whitespace.
var Pattern = regexp.MustCompile(`(?i)^last updated:[\s\p{Zs}]*\d{4}-\d{2}-\d{2}[\s\p{Zs}]*$`)

const prefix = "Last updated: "

// IsStamp reports whether line is a stamp line.
func IsStamp(line string) bool {
	return Pattern.MatchString(strings.TrimSpace(line))
}

// Line returns the canonical stamp line for date, without a line break.
func Line(date string) string { return prefix + date }

// Today returns the UTC calendar date of now in YYYY-MM-DD form.
func Today(now time.Time) string { return now.UTC().Format(time.DateOnly) }

// Result describes the outcome of [Apply].
type Result struct {
	// Content is the rewritten document.
	Content string
	// Replaced is the number of existing stamp lines that were rewritten.
	Replaced int
	// Appended is true if the document had no stamp line and one was added.
	Appended bool
	// Changed is true if Content differs from the original document.
	Changed bool
}

// Mode returns "replaced" or "appended".
func (r Result) Mode() string {
	if r.Appended {
		return "appended"
	}
	return "replaced"
}

// Apply rewrites content so that every stamp line carries date. If content
// has no stamp line, a new one is appended as the last line.
//
// date is used as is; Apply does not validate it.
func Apply(content, date string) Result {
	lines := strings.SplitAfter(content, "\n")
	// SplitAfter yields a trailing empty element when content ends with a
	// line break (and a single one for empty content).
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var res Result
	for i, line := range lines {
		if !IsStamp(line) {
			continue
		}
		nl := ""
		if strings.HasSuffix(line, "\n") {
			nl = "\n"
		}
		lines[i] = Line(date) + nl
		res.Replaced++
	}

	if res.Replaced == 0 {
		if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
			lines[n-1] += "\n"
		}
		lines = append(lines, Line(date)+"\n")
		res.Appended = true
	}

	res.Content = strings.Join(lines, "")
	res.Changed = res.Content != content
	return res
}

// Option configures [UpdateFile].
type Option func(*options)

type options struct {
	dry bool
}

// DryRun makes [UpdateFile] report whether the file would change without
// writing it.
func DryRun() Option {
	return func(o *options) { o.dry = true }
}

// newFilePerm is used when the target did not exist before the update.
const newFilePerm = 0o644

// UpdateFile applies date to the file at path and writes the result back if
// its content changed. It reports whether the content changed.
//
// A nonexistent path is treated as an empty document and is created.
// A symbolic link is followed, and the file it points to is updated.
// The write is atomic: the file holds either the old or the new content.
func UpdateFile(ctx context.Context, path, date string, opts ...Option) (changed bool, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	target, err := resolve(path)
	if err != nil {
		return false, err
	}
	original, exists, err := readFile(target)
	if err != nil {
		return false, err
	}

	res := Apply(string(original), date)
	attrs := []slog.Attr{
		slog.String("path", path),
		slog.String("date", date),
	}
	if !res.Changed {
		logger.Debug(ctx, "stamp already current", attrs...)
		return false, nil
	}
	attrs = append(attrs, slog.String("mode", res.Mode()))

	if o.dry {
		logger.Info(ctx, "would update stamp", attrs...)
		return true, nil
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	// atomic.WriteFile keeps the mode of an existing file.
	if err := atomic.WriteFile(target, bytes.NewBufferString(res.Content)); err != nil {
		return false, fmt.Errorf("writing %s: %w", target, err)
	}
	if !exists {
		if err := os.Chmod(target, newFilePerm); err != nil {
			return false, fmt.Errorf("setting permissions on %s: %w", target, err)
		}
	}

	logger.Info(ctx, "updated stamp", attrs...)
	return true, nil
}

// resolve follows symbolic links in path. A path that does not exist yet is
// returned as is.
func resolve(path string) (string, error) {
	target, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return target, nil
}

// readFile returns the content of the file at path and whether it exists. A
// nonexistent file is empty.
func readFile(path string) ([]byte, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return b, true, nil
}
