package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDeviceID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "pixel-7", "pixel-7"},
		{"underscores kept", "my_phone_01", "my_phone_01"},
		{"specials stripped", "ph one!@#", "phone"},
		{"spaces stripped", "  abc  ", "abc"},
		{"empty", "", ""},
		{"only specials", "!!!", ""},
		{"truncated", strings.Repeat("a", 200), strings.Repeat("a", 120)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDeviceID(tt.in))
		})
	}
}

func TestResolveDeviceTrustedBypassesHeaders(t *testing.T) {
	c, _ := newTestCore(Options{})

	id, name, err := c.ResolveDevice(true, "spoofed-id", "Spoofed Name")
	require.NoError(t, err)
	assert.Equal(t, DesktopDeviceID, id)
	assert.Equal(t, DesktopDeviceName, name)
}

func TestResolveDeviceMissingID(t *testing.T) {
	c, _ := newTestCore(Options{})

	_, _, err := c.ResolveDevice(false, "!!!", "Phone")
	kind, ok := IsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthMissingDeviceID, kind)
}

func TestResolveDeviceDerivesName(t *testing.T) {
	c, _ := newTestCore(Options{})

	id, name, err := c.ResolveDevice(false, "abcdefgh12345", "")
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh12345", id)
	assert.Equal(t, "Phone-abcdefgh", name)
}

func TestResolveDeviceTruncatesName(t *testing.T) {
	c, _ := newTestCore(Options{})

	_, name, err := c.ResolveDevice(false, "phone-1", strings.Repeat("x", 100))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 80), name)
}

func TestPreferredMobileDeviceTracksLatest(t *testing.T) {
	c, _ := newTestCore(Options{})

	// No phone paired yet: desktop pushes fall back to itself.
	id, name := c.PreferredMobileDevice()
	assert.Equal(t, DesktopDeviceID, id)
	assert.Equal(t, DesktopDeviceName, name)

	_, _, err := c.ResolveDevice(false, "phone-a", "Alice")
	require.NoError(t, err)
	_, _, err = c.ResolveDevice(false, "phone-b", "Bob")
	require.NoError(t, err)

	id, name = c.PreferredMobileDevice()
	assert.Equal(t, "phone-b", id)
	assert.Equal(t, "Bob", name)

	// Activity from A moves the pointer back.
	_, _, err = c.ResolveDevice(false, "phone-a", "Alice")
	require.NoError(t, err)
	id, _ = c.PreferredMobileDevice()
	assert.Equal(t, "phone-a", id)
}
