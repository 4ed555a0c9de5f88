package printlink

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineFramer_Feed(t *testing.T) {
	require := require.New(t)

	f := NewLineFramer(0)
	require.Empty(f.Feed([]byte("ok T:21")))
	require.Equal(7, f.Pending())

	lines := f.Feed([]byte(".3 /0.0\nok\necho:busy"))
	require.Equal([]string{"ok T:21.3 /0.0\n", "ok\n"}, lines)
	require.Equal(len("echo:busy"), f.Pending())

	f.Reset()
	require.Zero(f.Pending())
	require.Empty(f.Feed([]byte("x")))
}

func TestLineFramer_ZeroLengthChunk(t *testing.T) {
	require := require.New(t)

	f := NewLineFramer(0)
	f.Feed([]byte("start"))
	require.Nil(f.Feed(nil))
	require.Nil(f.Feed([]byte{}))
	require.Equal(5, f.Pending())
	require.Equal([]string{"start\n"}, f.Feed([]byte("\n")))
}

func TestLineFramer_Reconstruction(t *testing.T) {
	stream := "start\nFIRMWARE_NAME:Marlin 2.1\nok\n\nT:200.0 /200.0 B:60.0 /60.0\nok\necho:Unknown command\ntrailing"
	rnd := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		f := NewLineFramer(0)
		var got strings.Builder
		rest := []byte(stream)
		for len(rest) > 0 {
			n := rnd.Intn(len(rest) + 1)
			for _, line := range f.Feed(rest[:n]) {
				require.True(t, strings.HasSuffix(line, "\n"), "line %q must keep its terminator", line)
				got.WriteString(line)
			}
			rest = rest[n:]
		}
		require.Equal(t, len("trailing"), f.Pending())
		require.Equal(t, stream[:len(stream)-len("trailing")], got.String())
	}
}

func TestLineFramer_Bounded(t *testing.T) {
	require := require.New(t)

	f := NewLineFramer(8)
	lines := f.Feed([]byte("0123456789abcdefXY"))
	require.Equal([]string{"01234567", "89abcdef"}, lines)
	require.Equal(2, f.Pending())

	lines = f.Feed([]byte("Z\n"))
	require.Equal([]string{"XYZ\n"}, lines)
	require.Zero(f.Pending())
}

func TestLineFramer_Lossy(t *testing.T) {
	f := NewLineFramer(0)
	lines := f.Feed([]byte{'o', 'k', 0xff, 0xfe, '\n'})
	require.Equal(t, []string{"ok�\n"}, lines)
}
