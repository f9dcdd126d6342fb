package game

import (
	"strings"

	"github.com/ncruces/zenity"
	"github.com/pkg/errors"

	"github.com/iburimskiy/breath-visualization/internal/soundscape"
)

// promptText asks for new display text. ok is false when cancelled or blank.
func promptText(current string) (string, bool, error) {
	text, err := zenity.Entry(
		"Number or short text to breathe with:",
		zenity.Title("Display Text"),
		zenity.EntryText(current),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "text dialog")
	}
	text = strings.TrimSpace(text)
	return text, text != "", nil
}

// pickSoundFile asks for a soundscape file. ok is false when cancelled.
func pickSoundFile() (string, bool, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Soundscape"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: soundscape.Patterns,
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "file dialog")
	}
	return filename, true, nil
}
