// internal/ua/ua.go
//
// User-Agent summaries for the dev-server access log.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the server never sees its enums or structs.  The dev server only needs a
// short label per request ("Chrome 125 / MacOSX / Desktop"), plus a bot
// flag so crawler hits can be told apart while previewing a site.
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info carries the parsed attributes.
//
// Example (Chrome on macOS):
//
//	Browser   "Chrome"
//	Version   "125.0.6422"
//	OS        "MacOSX"
//	Device    "Desktop"
//	IsBot     false
//
// Device will be one of: "Desktop", "Mobile", "Tablet", or "Other".
type Info struct {
	Browser string
	Version string
	OS      string
	Device  string
	IsBot   bool
}

// Parse converts a raw header into an Info struct.
func Parse(raw string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser: trimEnum(u.Browser.Name.String(), "Browser"),
		Version: versionToString(u.Browser.Version),
		OS:      trimEnum(u.OS.Name.String(), "OS"),
		IsBot:   u.IsBot(),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// Summary renders a one-line label, e.g. "Chrome 125.0.6422 / MacOSX /
// Desktop".  Empty parts are skipped.
func (i Info) Summary() string {
	browser := i.Browser
	if i.Version != "" {
		browser += " " + i.Version
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{browser, i.OS, i.Device} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// trimEnum drops uasurfer's enum prefix ("BrowserChrome" → "Chrome").
func trimEnum(s, prefix string) string {
	s = strings.TrimPrefix(s, prefix)
	if s == "Unknown" {
		return ""
	}
	return s
}

// versionToString renders a version in dotted form while trimming trailing
// zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}
