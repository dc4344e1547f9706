package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camshot/internal/config"
	"camshot/internal/display"
)

func TestShutterActsAsDoneOnSettingsScreens(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.current = ModeSettingsEV
	a.dispatch(display.KeyEvent{Key: display.KeyShutter})
	assert.Equal(t, ModeViewfinder, a.Mode())
	assert.Equal(t, ModeSettingsEV, a.settingsScreen)
}

func TestShutterOnViewfinderCapturesAndStays(t *testing.T) {
	a, cam, _ := newTestApp(t)

	a.dispatch(display.KeyEvent{Key: display.KeyShutter})
	assert.Equal(t, 1, cam.Captures)
	assert.Equal(t, ModeViewfinder, a.Mode())
}

func TestRunExitsOnEmergencyQuitAndPersists(t *testing.T) {
	a, _, backend := newTestApp(t)
	a.adjustISO(1)

	backend.Push(display.KeyEvent{Key: display.KeyEmergencyQuit})

	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch loop did not exit")
	}

	// The splash frame went out before the quit event was drained
	assert.GreaterOrEqual(t, backend.Presents(), 1)

	loaded, err := config.LoadFile(a.configPath)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Settings.ISO)
}

func TestLiveModeRepaintsEveryPass(t *testing.T) {
	a, _, backend := newTestApp(t)
	require.True(t, a.modes[ModeViewfinder].Live)

	go func() {
		time.Sleep(200 * time.Millisecond)
		backend.Push(display.KeyEvent{Key: display.KeyEmergencyQuit})
	}()
	require.NoError(t, a.Run())

	// Splash plus a stream of live frames
	assert.Greater(t, backend.Presents(), 3)
}

func TestStaticModeDoesNotRepaintWithoutChange(t *testing.T) {
	a, _, _ := newTestApp(t)
	a.current = ModeNoImage
	a.prior = ModeNoImage

	before := a.backend.(*display.Memory).Presents()
	require.NoError(t, a.redraw())
	assert.Equal(t, before, a.backend.(*display.Memory).Presents())

	a.prior = ModeRefresh
	require.NoError(t, a.redraw())
	assert.Equal(t, before+1, a.backend.(*display.Memory).Presents())
}
