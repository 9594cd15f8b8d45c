package editor

import (
	"fmt"
	"strings"

	"slidecore/pkg/deck"
)

// SetTitle renames the document. The library entry follows on write-through.
func (e *Editor) SetTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return e.reject("set_title")
	}
	e.apply("set_title", false, func() { e.doc.Meta.Title = title })
	return true
}

// SetTheme selects a named theme.
func (e *Editor) SetTheme(name deck.ThemeName) bool {
	if !name.Valid() {
		return e.reject("set_theme")
	}
	e.apply("set_theme", true, func() { e.doc.Meta.Theme = name })
	return true
}

// SetCustomThemeProperty sets one custom palette key and switches the theme
// to custom. Colour keys take hex colours. It never snapshots.
func (e *Editor) SetCustomThemeProperty(key deck.ThemeKey, value string) bool {
	next := e.doc.Meta.CustomTheme
	if key.IsColor() && !deck.ValidColor(value) {
		return e.reject("set_custom_theme_property")
	}
	if !next.Set(key, value) {
		return e.reject("set_custom_theme_property")
	}
	e.apply("set_custom_theme_property", false, func() {
		e.doc.Meta.Theme = deck.ThemeCustom
		e.doc.Meta.CustomTheme = next
	})
	return true
}

// ApplyTheme copies the non-empty fields of patch onto the custom palette and
// switches the theme to custom. It never snapshots.
func (e *Editor) ApplyTheme(patch deck.ThemePatch) bool {
	if patch.Empty() || patch.Validate() != nil {
		return e.reject("apply_theme")
	}
	e.apply("apply_theme", false, func() {
		e.doc.Meta.Theme = deck.ThemeCustom
		patch.Apply(&e.doc.Meta.CustomTheme)
	})
	return true
}

// ApplyThemeJSON decodes a theme patch and applies it.
func (e *Editor) ApplyThemeJSON(data []byte) error {
	patch, err := deck.ParseThemeJSON(data)
	if err != nil {
		e.reject("apply_theme")
		return err
	}
	if err := patch.Validate(); err != nil {
		e.reject("apply_theme")
		return fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	if !e.ApplyTheme(patch) {
		return ErrInvalidTheme
	}
	return nil
}

// ApplyPreset applies the named preset palette.
func (e *Editor) ApplyPreset(name string) bool {
	preset, ok := deck.PresetByName(name)
	if !ok {
		return e.reject("apply_preset")
	}
	e.apply("apply_preset", true, func() {
		e.doc.Meta.Theme = deck.ThemeCustom
		preset.Patch().Apply(&e.doc.Meta.CustomTheme)
	})
	return true
}

// RandomizeTheme replaces the custom palette with a generated one.
func (e *Editor) RandomizeTheme() deck.CustomTheme {
	t := deck.RandomTheme(e.rng)
	e.apply("randomize_theme", true, func() {
		e.doc.Meta.Theme = deck.ThemeCustom
		e.doc.Meta.CustomTheme = t
	})
	return t
}

// SetTransition selects the slide transition.
func (e *Editor) SetTransition(t deck.Transition) bool {
	if !t.Valid() {
		return e.reject("set_transition")
	}
	e.apply("set_transition", true, func() { e.doc.Meta.Transition = t })
	return true
}
