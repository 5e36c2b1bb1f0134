package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// buildInfo is what `tymock version` reports.
type buildInfo struct {
	Version   string
	GoVersion string
	Modified  bool
}

func (b buildInfo) String() string {
	s := "tymock " + b.Version
	if b.Modified {
		s += " (modified)"
	}
	if b.GoVersion != "" {
		s += " " + b.GoVersion
	}
	return s
}

// Version returns the version string.
//
// Installed with `go install ...@version` it is the module version; a
// development build reports "devel-<VERSION>+<revision>".
func Version() string {
	return readBuildInfo().Version
}

func readBuildInfo() buildInfo {
	base := strings.TrimSpace(embeddedVersion)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return buildInfo{Version: base}
	}
	return fromBuildInfo(base, info)
}

func fromBuildInfo(base string, info *debug.BuildInfo) buildInfo {
	b := buildInfo{GoVersion: info.GoVersion}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		b.Version = v
		return b
	}
	var rev string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				rev = s.Value[:7]
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	b.Version = "devel-" + base
	if rev != "" {
		b.Version += "+" + rev
	}
	return b
}
