// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package version reports build information embedded by the Go toolchain.
package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"go.astrophena.name/laststamp/syncx"
)

// Info describes the running binary.
type Info struct {
	// Name is the command name.
	Name string
	// Version is the main module version, "(devel)" for local builds.
	Version string
	// Commit is the VCS revision, if known.
	Commit string
	// Dirty is true if the binary was built from a modified tree.
	Dirty bool
	// Go is the toolchain version used to build the binary.
	Go string
}

// String formats Info for -version output. It ends with a line break.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", i.Name, i.Version)
	if i.Commit != "" {
		fmt.Fprintf(&sb, " (%s", i.Commit)
		if i.Dirty {
			sb.WriteString(", dirty")
		}
		sb.WriteString(")")
	}
	if i.Go != "" {
		fmt.Fprintf(&sb, " built with %s", i.Go)
	}
	sb.WriteString("\n")
	return sb.String()
}

var info syncx.Lazy[Info]

// Version returns build information about the running binary.
func Version() Info { return info.Get(readInfo) }

// CmdName returns the name of the running command.
func CmdName() string { return Version().Name }

func readInfo() Info {
	i := Info{Name: cmdName(os.Args[0]), Version: "(devel)"}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	i.Go = bi.GoVersion
	if v := bi.Main.Version; v != "" {
		i.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			i.Commit = s.Value
		case "vcs.modified":
			i.Dirty = s.Value == "true"
		}
	}
	return i
}

func cmdName(arg0 string) string {
	return strings.TrimSuffix(filepath.Base(arg0), ".exe")
}
