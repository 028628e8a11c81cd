package core

// DesktopDeviceID is the reserved identifier for the trusted desktop;
// trusted-origin requests always resolve to it regardless of headers.
const (
	DesktopDeviceID   = "desktop"
	DesktopDeviceName = "Desktop"
)

const (
	maxDeviceIDLen   = 120
	maxDeviceNameLen = 80
)

// NormalizeDeviceID truncates a declared identifier to 120 characters and
// strips everything outside alphanumerics, '-' and '_'. An empty result
// means the declaration was unusable.
func NormalizeDeviceID(raw string) string {
	if len(raw) > maxDeviceIDLen {
		raw = raw[:maxDeviceIDLen]
	}
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			out = append(out, ch)
		}
	}
	return string(out)
}

// ResolveDevice attributes a request to a device. A trusted origin always
// resolves to the reserved desktop identity, bypassing the declared headers.
// Every mobile resolution updates the registry entry and the latest-mobile
// pointer used when the desktop pushes a file on a phone's behalf.
func (c *Core) ResolveDevice(trusted bool, declaredID, declaredName string) (string, string, error) {
	if trusted {
		return DesktopDeviceID, DesktopDeviceName, nil
	}

	deviceID := NormalizeDeviceID(declaredID)
	if deviceID == "" {
		return "", "", ErrMissingDeviceID
	}

	name := declaredName
	if runes := []rune(name); len(runes) > maxDeviceNameLen {
		name = string(runes[:maxDeviceNameLen])
	}
	if name == "" {
		name = defaultDeviceName(deviceID)
	}

	c.mu.Lock()
	c.deviceNames[deviceID] = name
	c.latestMobileID = deviceID
	c.mu.Unlock()
	return deviceID, name, nil
}

// PreferredMobileDevice returns the most recently active mobile device, or
// the desktop identity when no phone has paired yet. Desktop-initiated
// uploads are attributed to this device.
func (c *Core) PreferredMobileDevice() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.latestMobileID == "" {
		return DesktopDeviceID, DesktopDeviceName
	}
	name, ok := c.deviceNames[c.latestMobileID]
	if !ok {
		name = defaultDeviceName(c.latestMobileID)
	}
	return c.latestMobileID, name
}

func defaultDeviceName(deviceID string) string {
	short := deviceID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Phone-" + short
}
