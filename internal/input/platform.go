package input

import "strings"

// PlatformClass is the coarse device class used to pick a default modality.
type PlatformClass int

const (
	PlatformDesktop PlatformClass = iota
	PlatformMobile
)

func (c PlatformClass) String() string {
	if c == PlatformMobile {
		return "mobile"
	}
	return "desktop"
}

// mobileTerminals are TERM_PROGRAM / LC_TERMINAL values reported by phone and
// tablet SSH clients.
var mobileTerminals = []string{"termux", "termius", "blink", "juicessh", "a-shell", "ish"}

// DetectPlatform classifies the environment a session is played from. environ
// uses the os.Environ format ("KEY=value"); for SSH sessions pass the variables
// the client sent.
func DetectPlatform(environ []string) PlatformClass {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch key {
		case "ANDROID_ROOT", "ANDROID_DATA", "TERMUX_VERSION":
			if value != "" {
				return PlatformMobile
			}
		case "PREFIX":
			if strings.Contains(value, "com.termux") {
				return PlatformMobile
			}
		case "TERM_PROGRAM", "LC_TERMINAL":
			v := strings.ToLower(value)
			for _, name := range mobileTerminals {
				if strings.Contains(v, name) {
					return PlatformMobile
				}
			}
		}
	}
	return PlatformDesktop
}

// PlatformForGOOS classifies a compiled target, for frontends that run natively
// on the device.
func PlatformForGOOS(goos string) PlatformClass {
	switch goos {
	case "android", "ios":
		return PlatformMobile
	default:
		return PlatformDesktop
	}
}
