package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetCurrentVersion(t *testing.T) {
	require.Equal(t, DevVersion, GetCurrentVersion("dev"))
	require.Equal(t, DevVersion, GetCurrentVersion("demo"))
	require.Equal(t, Version, GetCurrentVersion("prod"))
}

func TestIsVersionGreaterOrEqualThan(t *testing.T) {
	tests := []struct {
		version string
		target  string
		want    bool
	}{
		{"0.2.0", "0.1.0", true},
		{"0.1.0", "0.1.0", true},
		{"0.1.0", "0.2.0", false},
		{"1.0.0", "0.9.9", true},
		{"0.9.9", "1.0.0", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, IsVersionGreaterOrEqualThan(tt.version, tt.target), "%s >= %s", tt.version, tt.target)
	}
}

func TestIsReleaseBuild(t *testing.T) {
	require.False(t, IsReleaseBuild("0.0.0-dev"))
	require.True(t, IsReleaseBuild("0.1.0"))
	require.True(t, IsReleaseBuild("1.2.3"))
}

func TestString(t *testing.T) {
	require.NotEmpty(t, String())
	require.Contains(t, StringFull(), "Version=")
}
