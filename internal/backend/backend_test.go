package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obinnaokechukwu/vidcapinv/internal/platform"
)

func TestKindFamily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   Kind
		name   string
		family platform.Family
	}{
		{KindWindowsNative, "windows-native", platform.FamilyWindows},
		{KindLinuxV4L2, "linux-v4l2", platform.FamilyLinux},
		{KindLinuxNative, "linux-native", platform.FamilyLinux},
		{Kind(42), "Kind(42)", platform.FamilyUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.family, tt.kind.Family())
		})
	}
}
