// Package buildinfo reports the version of the running binary.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/admindash/internal/buildinfo.buildVersion=v1.0.0 \
//	  -X github.com/dmitrijs2005/admindash/internal/buildinfo.buildDate=$(date -u +%F) \
//	  -X github.com/dmitrijs2005/admindash/internal/buildinfo.buildCommit=$(git rev-parse --short HEAD)"
//
// Anything not injected falls back to the module and VCS data embedded by the
// Go toolchain, and finally to "N/A".
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

const notAvailable = "N/A"

var (
	buildVersion = notAvailable
	buildDate    = notAvailable
	buildCommit  = notAvailable
)

// Data is the resolved build metadata.
type Data struct {
	Version string
	Date    string
	Commit  string
}

// Resolve merges link-time values with info. A nil info is read from the
// runtime.
func Resolve(info *debug.BuildInfo) Data {
	d := Data{Version: buildVersion, Date: buildDate, Commit: buildCommit}

	if info == nil {
		var ok bool
		if info, ok = debug.ReadBuildInfo(); !ok {
			return d
		}
	}

	if d.Version == notAvailable && info.Main.Version != "" && info.Main.Version != "(devel)" {
		d.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && d.Commit == notAvailable && s.Value != "":
			d.Commit = s.Value
		case s.Key == "vcs.time" && d.Date == notAvailable && s.Value != "":
			d.Date = s.Value
		}
	}
	return d
}

// PrintBuildData writes the build banner to w.
func PrintBuildData(w io.Writer) {
	d := Resolve(nil)
	fmt.Fprintf(w, "Build version: %s\n", d.Version)
	fmt.Fprintf(w, "Build date: %s\n", d.Date)
	fmt.Fprintf(w, "Build commit: %s\n", d.Commit)
}
