//go:build !windows

package stderr

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_ForwardsLines(t *testing.T) {
	var lines []string
	c, err := Start(func(line string) { lines = append(lines, line) })
	require.NoError(t, err)

	_, err = os.Stderr.WriteString("ALSA lib pcm.c: underrun occurred\n\n  \nsecond line\n")
	require.NoError(t, err)

	c.Restore()
	c.Restore()

	assert.Equal(t, []string{"ALSA lib pcm.c: underrun occurred", "second line"}, lines)
}
