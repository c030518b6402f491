package refreshtoken

import (
	"encoding/json"

	"github.com/mileusna/useragent"
)

func ParseDeviceInfo(userAgent string) DeviceInfo {
	ua := useragent.Parse(userAgent)

	info := DeviceInfo{
		Browser:        ua.Name,
		BrowserVersion: ua.Version,
		OS:             ua.OS,
		DeviceType:     "unknown",
	}
	switch {
	case ua.Bot:
		info.DeviceType = "bot"
	case ua.Tablet:
		info.DeviceType = "tablet"
	case ua.Mobile:
		info.DeviceType = "mobile"
	case ua.Desktop:
		info.DeviceType = "desktop"
	}
	return info
}

func encodeDeviceInfo(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	data, err := json.Marshal(ParseDeviceInfo(userAgent))
	if err != nil {
		return ""
	}
	return string(data)
}
