package deck

import "strings"

// Preset is a named palette from the built-in library. Presets carry no
// surface or secondary colour; applying one keeps the current values.
type Preset struct {
	Name    string
	Bg      string
	Text    string
	Primary string
	Accent  string
	Font    string
}

var presets = []Preset{
	{"Corporate Blue", "#ffffff", "#1e293b", "#0f172a", "#3b82f6", "Inter"},
	{"Dark Mode", "#121212", "#e4e4e7", "#ffffff", "#6366f1", "Inter"},
	{"Forest", "#f0fdf4", "#14532d", "#166534", "#22c55e", "Lato"},
	{"Oceanic", "#f0f9ff", "#0c4a6e", "#0369a1", "#0ea5e9", "Montserrat"},
	{"Sunset", "#fff7ed", "#7c2d12", "#c2410c", "#f97316", "Playfair Display"},
	{"Cyberpunk", "#09090b", "#e4e4e7", "#e879f9", "#22d3ee", "Roboto"},
	{"Minimalist", "#ffffff", "#525252", "#171717", "#a3a3a3", "Inter"},
	{"Lavender Dream", "#faf5ff", "#581c87", "#7e22ce", "#a855f7", "Lato"},
	{"High Contrast", "#000000", "#ffffff", "#ffff00", "#00ffff", "Roboto"},
	{"Vintage", "#fef3c7", "#451a03", "#92400e", "#d97706", "Playfair Display"},
	{"Midnight", "#1e1b4b", "#e0e7ff", "#818cf8", "#4f46e5", "Montserrat"},
	{"Berry", "#fff1f2", "#881337", "#be123c", "#f43f5e", "Lato"},
	{"Tech Green", "#022c22", "#ecfdf5", "#10b981", "#34d399", "Roboto"},
	{"Coffee", "#292524", "#d6d3d1", "#d6d3d1", "#a8a29e", "Playfair Display"},
	{"Candy", "#fff0f5", "#86198f", "#d946ef", "#f0abfc", "Montserrat"},
	{"Slate", "#f8fafc", "#334155", "#475569", "#94a3b8", "Inter"},
	{"Mint", "#ecfdf5", "#064e3b", "#059669", "#34d399", "Lato"},
	{"Royal", "#172554", "#eff6ff", "#60a5fa", "#93c5fd", "Playfair Display"},
	{"Warmth", "#fffbeb", "#78350f", "#b45309", "#f59e0b", "Roboto"},
	{"Steel", "#111827", "#e5e7eb", "#9ca3af", "#6b7280", "Inter"},
}

// Presets returns a copy of the built-in preset library.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName finds a preset ignoring case.
func PresetByName(name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Patch converts the preset into a theme patch.
func (p Preset) Patch() ThemePatch {
	return ThemePatch{
		Background: p.Bg,
		Text:       p.Text,
		Primary:    p.Primary,
		Accent:     p.Accent,
		Font:       p.Font,
	}
}
