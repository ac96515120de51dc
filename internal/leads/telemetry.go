package leads

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"

	BrowserUnknown = "Unknown"
)

// Telemetry is the best-effort client context stored with a lead
type Telemetry struct {
	Device  string
	Browser string
}

// Detect classifies a User-Agent. Detection never fails the submission,
// a panic inside it yields Desktop/Unknown.
func Detect(userAgent string, log *zap.Logger) (t Telemetry) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("telemetry detection failed", zap.String("panic", fmt.Sprint(r)))
			t = Telemetry{Device: DeviceDesktop, Browser: BrowserUnknown}
		}
	}()

	ua := strings.ToLower(userAgent)
	return Telemetry{Device: device(ua), Browser: browser(ua)}
}

func device(ua string) string {
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return DeviceTablet
	case strings.Contains(ua, "mobi"), strings.Contains(ua, "iphone"), strings.Contains(ua, "ipod"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// order matters, Edge and Chrome both claim Safari
func browser(ua string) string {
	switch {
	case strings.Contains(ua, "edg/"), strings.Contains(ua, "edge/"):
		return "Edge"
	case strings.Contains(ua, "firefox/"), strings.Contains(ua, "fxios/"):
		return "Firefox"
	case strings.Contains(ua, "chrome/"), strings.Contains(ua, "crios/"):
		return "Chrome"
	case strings.Contains(ua, "safari/"):
		return "Safari"
	default:
		return BrowserUnknown
	}
}
