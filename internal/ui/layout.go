package ui

import (
	"image"

	"camshot/internal/config"
	"camshot/internal/display"
)

// layout scales widget rectangles from the 320x240 reference space to the
// actual display resolution.
type layout struct {
	width  int
	height int
}

func (l layout) x(v int) int {
	return v * l.width / config.ReferenceWidth
}

func (l layout) y(v int) int {
	return v * l.height / config.ReferenceHeight
}

func (l layout) rect(x, y, w, h int) image.Rectangle {
	return image.Rect(l.x(x), l.y(y), l.x(x)+l.x(w), l.y(y)+l.y(h))
}

// controls collects the widgets whose icon or geometry changes when a
// setting changes, so the setters can update them directly.
type controls struct {
	fxLabel     *Widget
	isoLabel    *Widget
	isoArrow    *Widget
	evLabel     *Widget
	evArrow     *Widget
	storeRadios [3]*Widget
	sizeRadios  [3]*Widget
}

// moveMarker repositions an indicator arrow to the marker X position from
// the setting table, keeping its size.
func (l layout) moveMarker(w *Widget, markerX int) {
	width := w.Rect.Dx()
	minX := l.x(markerX - 10)
	w.Rect = image.Rect(minX, w.Rect.Min.Y, minX+width, w.Rect.Max.Y)
}

// buildModes constructs the full mode table. There is a little repetition
// between the settings screens (each declares its own prev/next buttons);
// sharing those few widgets between modes made for a tangle everywhere the
// icons get updated, so each screen owns its own.
func (a *App) buildModes(l layout) (ModeTable, *controls) {
	c := &controls{}

	// Photo playback
	view := &ModeInfo{
		Widgets: []*Widget{
			{Rect: l.rect(0, 188, 320, 52)}, // bottom bar, layering only
			{Rect: l.rect(0, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.imageNav, -1)},
			{Rect: l.rect(240, 0, 80, 52), Bg: IconNext, OnTap: withValue(a.imageNav, 1)},
			{Rect: l.rect(88, 70, 157, 102)},  // busy label slot
			{Rect: l.rect(148, 129, 22, 22)},  // busy animation slot
			{Rect: l.rect(121, 0, 78, 52), Bg: IconTrash, OnTap: withValue(a.imageNav, 0)},
		},
		Keys: map[display.Key]Action{
			display.KeyLeft:   withValue(a.imageNav, -1),
			display.KeyRight:  withValue(a.imageNav, 1),
			display.KeySelect: withValue(a.imageNav, 0),
		},
	}
	view.SpinnerLabel = view.Widgets[3]
	view.SpinnerAnim = view.Widgets[4]

	// Delete confirmation
	del := &ModeInfo{
		Widgets: []*Widget{
			{Rect: l.rect(0, 35, 320, 33), Bg: IconDeletePrompt},
			{Rect: l.rect(32, 86, 120, 100), Bg: IconYesNo, Fg: IconYes,
				OnTap: func() { a.deleteConfirm(true) }},
			{Rect: l.rect(168, 86, 120, 100), Bg: IconYesNo, Fg: IconNo,
				OnTap: func() { a.deleteConfirm(false) }},
		},
		Keys: map[display.Key]Action{
			display.KeyLeft:  func() { a.deleteConfirm(true) },
			display.KeyRight: func() { a.deleteConfirm(false) },
		},
	}

	// Empty gallery
	noImage := &ModeInfo{
		Widgets: []*Widget{
			{Rect: l.rect(0, 0, 320, 240), OnTap: a.done}, // full screen returns to viewfinder
			{Rect: l.rect(0, 53, 320, 80), Bg: IconEmpty},
		},
		Keys: map[display.Key]Action{},
	}

	// Viewfinder: gear and play in the bottom corners, the rest of the
	// screen is the shutter
	viewfinder := &ModeInfo{
		Live: true,
		Widgets: []*Widget{
			{Rect: l.rect(0, 188, 156, 52), Bg: IconGear, OnTap: withValue(a.viewTap, 0)},
			{Rect: l.rect(164, 188, 156, 52), Bg: IconPlay, OnTap: withValue(a.viewTap, 1)},
			{Rect: l.rect(0, 0, 320, 240), OnTap: withValue(a.viewTap, 2)},
			{Rect: l.rect(88, 51, 157, 102)}, // busy label slot
			{Rect: l.rect(148, 110, 22, 22)}, // busy animation slot
		},
		Keys: map[display.Key]Action{
			display.KeyShutter: a.capture,
			display.KeyRight:   a.toggleZoom,
		},
	}
	viewfinder.SpinnerLabel = viewfinder.Widgets[3]
	viewfinder.SpinnerAnim = viewfinder.Widgets[4]

	// Storage settings
	storage := &ModeInfo{
		Live:     true,
		Settings: true,
		Widgets: []*Widget{
			{Rect: l.rect(0, 188, 320, 52)},
			{Rect: l.rect(0, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.cycleSetting, -1)},
			{Rect: l.rect(240, 0, 80, 52), Bg: IconNext, OnTap: withValue(a.cycleSetting, 1)},
			{Rect: l.rect(2, 60, 100, 120), Bg: IconRadioOn, Fg: IconStoreFolder,
				OnTap: withValue(a.setStore, 0)},
			{Rect: l.rect(110, 60, 100, 120), Bg: IconRadioOff, Fg: IconStoreBoot,
				OnTap: withValue(a.setStore, 1)},
			{Rect: l.rect(218, 60, 100, 120), Bg: IconRadioOff, Fg: IconStoreUpload,
				OnTap: withValue(a.setStore, 2)},
			{Rect: l.rect(0, 10, 320, 35), Bg: IconStorageTitle},
		},
		Keys: map[display.Key]Action{},
	}
	for i := 0; i < 3; i++ {
		c.storeRadios[i] = storage.Widgets[3+i]
	}

	// Size settings
	size := &ModeInfo{
		Live:     true,
		Settings: true,
		Widgets: []*Widget{
			{Rect: l.rect(0, 188, 320, 52)},
			{Rect: l.rect(0, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.cycleSetting, -1)},
			{Rect: l.rect(240, 0, 80, 52), Bg: IconNext, OnTap: withValue(a.cycleSetting, 1)},
			{Rect: l.rect(2, 60, 100, 120), Bg: IconRadioOn, Fg: IconSizeLarge,
				OnTap: withValue(a.setSize, 0)},
			{Rect: l.rect(110, 60, 100, 120), Bg: IconRadioOff, Fg: IconSizeMedium,
				OnTap: withValue(a.setSize, 1)},
			{Rect: l.rect(218, 60, 100, 120), Bg: IconRadioOff, Fg: IconSizeSmall,
				OnTap: withValue(a.setSize, 2)},
			{Rect: l.rect(0, 10, 320, 29), Bg: IconSizeTitle},
		},
		Keys: map[display.Key]Action{
			display.KeyRight: withValue(a.adjustSize, 1),
			display.KeyLeft:  withValue(a.adjustSize, -1),
		},
	}
	for i := 0; i < 3; i++ {
		c.sizeRadios[i] = size.Widgets[3+i]
	}

	// Effect settings. The settings cycle deliberately dead-ends here: the
	// only cycle button is the top-left one, and cycleSetting ignores this
	// mode anyway.
	effect := &ModeInfo{
		Live:     true,
		Settings: true,
		Widgets: []*Widget{
			{Rect: l.rect(0, 188, 320, 52)},
			{Rect: l.rect(0, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.cycleSetting, -1)},
			{Rect: l.rect(240, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.adjustEffect, -1)},
			{Rect: l.rect(240, 70, 80, 52), Bg: IconNext, OnTap: withValue(a.adjustEffect, 1)},
			{Rect: l.rect(0, 67, 320, 91), Bg: EffectLabel(0)},
			{Rect: l.rect(0, 11, 320, 29), Bg: IconEffectTitle},
		},
		Keys: map[display.Key]Action{
			display.KeyRight: withValue(a.adjustEffect, 1),
			display.KeyLeft:  withValue(a.adjustEffect, -1),
		},
	}
	c.fxLabel = effect.Widgets[4]

	// ISO settings
	iso := &ModeInfo{
		Live:     true,
		Settings: true,
		Widgets: []*Widget{
			{Rect: l.rect(0, 188, 320, 52), Bg: IconDone, OnTap: a.done},
			{Rect: l.rect(0, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.cycleSetting, -1)},
			{Rect: l.rect(240, 0, 80, 52), Bg: IconNext, OnTap: withValue(a.cycleSetting, 1)},
			{Rect: l.rect(0, 70, 80, 52), Bg: IconPrev, OnTap: withValue(a.adjustISO, -1)},
			{Rect: l.rect(240, 70, 80, 52), Bg: IconNext, OnTap: withValue(a.adjustISO, 1)},
			{Rect: l.rect(0, 79, 320, 33), Bg: ISOLabel(0)},
			{Rect: l.rect(9, 134, 302, 26), Bg: IconISOBar},
			{Rect: l.rect(0, 157, 21, 19), Bg: IconISOArrow},
			{Rect: l.rect(0, 10, 320, 29), Bg: IconISOTitle},
		},
		Keys: map[display.Key]Action{
			display.KeyRight: withValue(a.adjustISO, 1),
			display.KeyLeft:  withValue(a.adjustISO, -1),
		},
	}
	c.isoLabel = iso.Widgets[5]
	c.isoArrow = iso.Widgets[7]

	// EV compensation settings
	ev := &ModeInfo{
		Live:     true,
		Settings: true,
		Widgets: []*Widget{
			{Rect: l.rect(0, 188, 320, 52), Bg: IconDone, OnTap: a.done},
			{Rect: l.rect(0, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.cycleSetting, -1)},
			{Rect: l.rect(240, 0, 80, 52), Bg: IconNext, OnTap: withValue(a.cycleSetting, 1)},
			{Rect: l.rect(0, 70, 80, 52), Bg: IconPrev, OnTap: withValue(a.adjustEV, -1)},
			{Rect: l.rect(240, 70, 80, 52), Bg: IconNext, OnTap: withValue(a.adjustEV, 1)},
			{Rect: l.rect(0, 79, 320, 33), Bg: EVLabel(evDefault)},
			{Rect: l.rect(9, 134, 302, 26), Bg: IconEVBar},
			{Rect: l.rect(0, 157, 21, 19), Bg: IconISOArrow},
			{Rect: l.rect(0, 10, 320, 29), Bg: IconEVTitle},
		},
		Keys: map[display.Key]Action{
			display.KeyRight: withValue(a.adjustEV, 1),
			display.KeyLeft:  withValue(a.adjustEV, -1),
		},
	}
	c.evLabel = ev.Widgets[5]
	c.evArrow = ev.Widgets[7]

	// Quit confirmation
	quit := &ModeInfo{
		Live: true,
		Widgets: []*Widget{
			{Rect: l.rect(0, 0, 80, 52), Bg: IconPrev, OnTap: withValue(a.cycleSetting, -1)},
			{Rect: l.rect(240, 0, 80, 52), Bg: IconNext, OnTap: withValue(a.cycleSetting, 1)},
			{Rect: l.rect(110, 60, 100, 120), Bg: IconQuitOK, OnTap: a.quitConfirm},
			{Rect: l.rect(0, 10, 320, 35), Bg: IconQuitPrompt},
		},
		Keys: map[display.Key]Action{
			display.KeySelect: a.quitConfirm,
		},
	}

	return ModeTable{
		ModeView:            view,
		ModeDelete:          del,
		ModeNoImage:         noImage,
		ModeViewfinder:      viewfinder,
		ModeSettingsStorage: storage,
		ModeSettingsSize:    size,
		ModeSettingsEffect:  effect,
		ModeSettingsISO:     iso,
		ModeSettingsEV:      ev,
		ModeQuit:            quit,
	}, c
}
