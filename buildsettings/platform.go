package buildsettings

import (
	"runtime"
	"strings"

	"github.com/teranos/jsbind/errors"
)

// Platform is a deployment target.
type Platform int

const (
	Undefined Platform = iota
	Windows
	Mac
	HTML5
	Android
	IOS
)

var platformNames = []string{"undefined", "windows", "mac", "html5", "android", "ios"}

func (p Platform) String() string {
	if p < 0 || int(p) >= len(platformNames) {
		return "undefined"
	}
	return platformNames[p]
}

// ParsePlatform accepts a platform name in any case. "webgl" selects HTML5
// and "osx" selects Mac.
func ParsePlatform(name string) (Platform, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "webgl", "web":
		return HTML5, nil
	case "osx", "macos", "darwin":
		return Mac, nil
	default:
		for i, candidate := range platformNames {
			if n == candidate {
				return Platform(i), nil
			}
		}
	}
	return Undefined, errors.WithHintf(
		errors.Newf("unknown platform %q", name),
		"valid platforms: %s", strings.Join(platformNames[1:], ", "))
}

// MarshalText implements encoding.TextMarshaler
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := ParsePlatform(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

var goos = runtime.GOOS

// Host returns the platform an Undefined selection falls back to.
func Host() Platform {
	if goos == "darwin" {
		return Mac
	}
	return Windows
}
