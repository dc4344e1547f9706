// Package ui implements the screen state machine, widget layer, busy
// indicator, and input dispatch loop of the camera application.
package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"camshot/internal/camera"
	"camshot/internal/log"
)

// IconID names a bitmap in the icon directory (without the .png suffix).
// IDs are resolved to decoded images once at startup; a missing bitmap
// simply leaves the widget slot unpainted.
type IconID string

// IconNone marks an unset icon slot
const IconNone IconID = ""

// Fixed icons
const (
	IconPrev         IconID = "prev"
	IconNext         IconID = "next"
	IconTrash        IconID = "trash"
	IconGear         IconID = "gear"
	IconPlay         IconID = "play"
	IconYesNo        IconID = "yn"
	IconYes          IconID = "yes"
	IconNo           IconID = "no"
	IconDeletePrompt IconID = "delete"
	IconEmpty        IconID = "empty"
	IconDone         IconID = "done"
	IconQuitPrompt   IconID = "quit"
	IconQuitOK       IconID = "quit-ok"
	IconStorageTitle IconID = "storage"
	IconSizeTitle    IconID = "size"
	IconEffectTitle  IconID = "fx"
	IconISOTitle     IconID = "iso"
	IconEVTitle      IconID = "ev"
	IconISOBar       IconID = "iso-bar"
	IconEVBar        IconID = "ev-bar"
	IconISOArrow     IconID = "iso-arrow"
	IconWorking      IconID = "working"
	IconRadioOff     IconID = "radio3-0"
	IconRadioOn      IconID = "radio3-1"
	IconStoreFolder  IconID = "store-folder"
	IconStoreBoot    IconID = "store-boot"
	IconStoreUpload  IconID = "store-dropbox"
	IconSizeLarge    IconID = "size-l"
	IconSizeMedium   IconID = "size-m"
	IconSizeSmall    IconID = "size-s"
)

// EffectLabel returns the label icon for an effect index
func EffectLabel(n int) IconID {
	return IconID("fx-" + camera.Effects[n])
}

// ISOLabel returns the label icon for an ISO table index
func ISOLabel(n int) IconID {
	return IconID(fmt.Sprintf("iso-%d", camera.ISOTable[n].Value))
}

// EVLabel returns the label icon for an EV table index
func EVLabel(n int) IconID {
	return IconID(fmt.Sprintf("ev-%d", camera.EVTable[n].Value))
}

// SpinnerFrame returns the animation frame icon for the busy indicator.
// The animation cycles through five frames.
func SpinnerFrame(n int) IconID {
	return IconID(fmt.Sprintf("work-%d", n%spinnerFrames))
}

// IconSet is the resolved icon registry
type IconSet struct {
	images map[IconID]image.Image
}

// NewIconSet returns an empty registry (tests, headless runs)
func NewIconSet() *IconSet {
	return &IconSet{images: make(map[IconID]image.Image)}
}

// LoadIcons decodes every PNG in dir into a registry. Files that fail to
// decode are skipped with a warning; a missing directory yields an empty
// registry.
func LoadIcons(dir string) *IconSet {
	set := NewIconSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warnf("icon directory unavailable: %v", err)
		return set
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".png") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			log.Warnf("opening icon %s: %v", name, err)
			continue
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			log.Warnf("decoding icon %s: %v", name, err)
			continue
		}
		set.images[IconID(strings.TrimSuffix(name, ".png"))] = img
	}
	log.Debugf("loaded %d icons from %s", len(set.images), dir)
	return set
}

// Put registers an icon directly (used by tests)
func (s *IconSet) Put(id IconID, img image.Image) {
	s.images[id] = img
}

// Get returns the bitmap for an icon ID, or nil when absent
func (s *IconSet) Get(id IconID) image.Image {
	if id == IconNone {
		return nil
	}
	return s.images[id]
}
