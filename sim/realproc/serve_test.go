package realproc

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type subordinateHarness struct {
	in      *io.PipeWriter
	out     *io.PipeReader
	signals chan os.Signal
	errc    chan error
	stops   int
}

func startSubordinate(t *testing.T, name string) *subordinateHarness {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	h := &subordinateHarness{in: inW, out: outR, signals: make(chan os.Signal, 4), errc: make(chan error, 1)}
	go func() {
		h.errc <- Serve(name, inR, outW, h.signals, func() error {
			h.stops++
			return nil
		})
		_ = outW.Close()
	}()
	return h
}

func (h *subordinateHarness) send(t *testing.T, clock int64, sig os.Signal) {
	t.Helper()
	_, err := h.in.Write(encodeClock(clock))
	require.NoError(t, err)
	if sig != nil {
		h.signals <- sig
	}
}

func (h *subordinateHarness) read(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := io.ReadFull(h.out, buf)
	require.NoError(t, err)
	return buf
}

func TestServe_FullLifecycle(t *testing.T) {
	// GIVEN a subordinate named P1
	h := startSubordinate(t, "P1")

	// WHEN created at clock 0x0102
	h.send(t, 0x0102, nil)
	// THEN it acks the low byte
	assert.Equal(t, []byte{0x02}, h.read(t, 1))

	// WHEN suspended at 5 and resumed at 7
	h.send(t, 5, unix.SIGTSTP)
	h.send(t, 7, unix.SIGCONT)
	// THEN the resume is acked
	assert.Equal(t, []byte{7}, h.read(t, 1))

	// WHEN terminated at 9
	h.send(t, 9, unix.SIGTERM)
	// THEN the trailer covers every clock received
	trailer := h.read(t, TrailerLength)
	require.NoError(t, <-h.errc)
	assert.Equal(t, Trailer("P1", []uint32{0x0102, 5, 7, 9}), string(trailer))
	assert.Equal(t, 1, h.stops)
}

func TestServe_StdinClosed_ExitsCleanly(t *testing.T) {
	h := startSubordinate(t, "P2")
	h.send(t, 0, nil)
	h.read(t, 1)

	require.NoError(t, h.in.Close())

	assert.NoError(t, <-h.errc)
}

func TestServe_NoInitialClock_ReturnsError(t *testing.T) {
	h := startSubordinate(t, "P3")

	require.NoError(t, h.in.Close())

	assert.Error(t, <-h.errc)
}

func TestTrailer_Length(t *testing.T) {
	assert.Len(t, Trailer("P1", nil), TrailerLength)
	assert.NotEqual(t, Trailer("P1", []uint32{1}), Trailer("P1", []uint32{2}))
}
