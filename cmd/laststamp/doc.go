// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Laststamp refreshes the "Last updated: YYYY-MM-DD" line of a text file.

Usage:

	laststamp [flags] [target]

The target defaults to README.md and must exist. Every line that reads
"Last updated: " followed by a date, ignoring case and surrounding
whitespace, is rewritten with today's UTC date. If there is no such line,
one is appended at the end of the file. The file is written only if its
content changes, so running laststamp twice on the same day is a no-op.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/laststamp/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
