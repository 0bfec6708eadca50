// Package version provides Dash protocol version parsing and negotiation.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the protocol version implemented by this host.
const Current = "1.7"

// Version represents a parsed "major.minor" protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CompatibleWith reports whether a caller built against the remote version
// can be served by a host at version v. Majors are wire-breaking and must
// match exactly; a remote minor newer than the host's is rejected because the
// host cannot honor semantics it does not know. The check is deliberately
// asymmetric: remote.Minor <= v.Minor, never a numeric distance.
func (v Version) CompatibleWith(remote Version) bool {
	return remote.Major == v.Major && remote.Minor <= v.Minor
}

// IsCompatible parses a caller-declared version string and checks it against
// the host's Current version. Unparseable input is incompatible.
func IsCompatible(remote string) bool {
	rv, err := Parse(remote)
	if err != nil {
		return false
	}
	host, _ := Parse(Current)
	return host.CompatibleWith(rv)
}
