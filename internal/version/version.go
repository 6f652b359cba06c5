// Package version carries the release version stamped into the binaries.
package version

// Current is bumped on release. No "v" prefix.
const Current = "0.1.0"

// String formats a binary name with the current version, e.g. "attrcheck 0.1.0".
func String(binary string) string {
	return binary + " " + Current
}
