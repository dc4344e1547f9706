package ui

import "camshot/internal/display"

// Mode is one discrete state of the UI state machine
type Mode int

// ModeRefresh is a sentinel stored only in the prior-mode tracker to force
// a redraw on the next loop pass. It is never the current mode.
const ModeRefresh Mode = -1

const (
	// ModeView is photo playback
	ModeView Mode = iota
	// ModeDelete is the delete confirmation screen
	ModeDelete
	// ModeNoImage is shown when the gallery is empty
	ModeNoImage
	// ModeViewfinder is the live preview / shutter screen
	ModeViewfinder
	ModeSettingsStorage
	ModeSettingsSize
	ModeSettingsEffect
	ModeSettingsISO
	ModeSettingsEV
	// ModeQuit is the quit confirmation screen
	ModeQuit
)

func (m Mode) String() string {
	switch m {
	case ModeRefresh:
		return "refresh"
	case ModeView:
		return "view"
	case ModeDelete:
		return "delete-confirm"
	case ModeNoImage:
		return "no-image"
	case ModeViewfinder:
		return "viewfinder"
	case ModeSettingsStorage:
		return "settings-storage"
	case ModeSettingsSize:
		return "settings-size"
	case ModeSettingsEffect:
		return "settings-effect"
	case ModeSettingsISO:
		return "settings-iso"
	case ModeSettingsEV:
		return "settings-ev"
	case ModeQuit:
		return "quit"
	default:
		return "invalid"
	}
}

// cyclableModes is the ordered subset reachable with the settings-cycle
// keys. Storage and effect screens are deliberately excluded (their cycle
// buttons are dead ends in the layout), as are the delete-confirm and
// no-image screens, which are special screens you can't navigate to
// normally.
var cyclableModes = []Mode{
	ModeView,
	ModeViewfinder,
	ModeSettingsEV,
	ModeSettingsISO,
	ModeSettingsSize,
	ModeQuit,
}

// settingsScreens lists the screens whose last-used member is persisted and
// restored by the gear button, in storage-offset order.
var settingsScreens = []Mode{
	ModeSettingsStorage,
	ModeSettingsSize,
	ModeSettingsEffect,
	ModeSettingsISO,
	ModeSettingsEV,
}

// ModeInfo carries one mode's widgets, key bindings, and capabilities.
// Capabilities are explicit tags rather than ordinal comparisons.
type ModeInfo struct {
	Widgets []*Widget
	Keys    map[display.Key]Action

	// Live marks modes that refresh continuously from the camera
	Live bool
	// Settings marks the settings screens (gear-button memory, done-button
	// persistence)
	Settings bool

	// SpinnerLabel and SpinnerAnim are the two widget slots the busy
	// indicator claims while a blocking operation runs; nil when the mode
	// has no reserved slots.
	SpinnerLabel *Widget
	SpinnerAnim  *Widget
}

// ModeTable maps every mode to its ModeInfo
type ModeTable map[Mode]*ModeInfo
