package modelzoo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	t.Run("HeadPose", func(t *testing.T) {
		a, ok := reg["Head pose estimation"]
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(a.URL, "https://"))

		for _, angle := range []string{"roll", "yaw", "pitch"} {
			rel, ok := a.Entries[angle]
			require.True(t, ok, "missing %s entry", angle)
			assert.Contains(t, rel, angle)
		}
	})

	t.Run("HaarCascades", func(t *testing.T) {
		a, ok := reg["Haar Cascades"]
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(a.URL, "https://"))
		assert.Contains(t, a.Entries, "frontal face")
		assert.Contains(t, a.Entries, "profile face")
	})

	t.Run("EntriesAreRelative", func(t *testing.T) {
		for name, a := range reg {
			for entry, rel := range a.Entries {
				assert.True(t, validEntryName(rel), "%s/%s: %q", name, entry, rel)
			}
		}
	})
}
