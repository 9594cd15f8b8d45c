package deck

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// CustomTheme is the concrete palette used when Meta.Theme is ThemeCustom.
type CustomTheme struct {
	Bg        string `json:"bg"`
	Surface   string `json:"surface"`
	Text      string `json:"text"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Font      string `json:"font"`
}

// ThemeKey names one property of a CustomTheme.
type ThemeKey string

// Recognised custom theme keys.
const (
	KeyBg        ThemeKey = "bg"
	KeySurface   ThemeKey = "surface"
	KeyText      ThemeKey = "text"
	KeyPrimary   ThemeKey = "primary"
	KeySecondary ThemeKey = "secondary"
	KeyAccent    ThemeKey = "accent"
	KeyFont      ThemeKey = "font"
)

// IsColor reports whether the key holds a colour rather than a font name.
func (k ThemeKey) IsColor() bool { return k != KeyFont }

// ThemeKeys lists every recognised key in persisted order.
func ThemeKeys() []ThemeKey {
	return []ThemeKey{KeyBg, KeySurface, KeyText, KeyPrimary, KeySecondary, KeyAccent, KeyFont}
}

// DefaultCustomTheme returns the palette new documents start from.
func DefaultCustomTheme() CustomTheme {
	return CustomTheme{
		Bg:        "#ffffff",
		Surface:   "#f5f5f5",
		Text:      "#333333",
		Primary:   "#953f8d",
		Secondary: "#3fef7d",
		Accent:    "#18dcf3",
		Font:      "Inter",
	}
}

func (t *CustomTheme) field(key ThemeKey) *string {
	switch key {
	case KeyBg:
		return &t.Bg
	case KeySurface:
		return &t.Surface
	case KeyText:
		return &t.Text
	case KeyPrimary:
		return &t.Primary
	case KeySecondary:
		return &t.Secondary
	case KeyAccent:
		return &t.Accent
	case KeyFont:
		return &t.Font
	}
	return nil
}

// Get returns the value for key, or "" for an unknown key.
func (t CustomTheme) Get(key ThemeKey) string {
	if f := t.field(key); f != nil {
		return *f
	}
	return ""
}

// Set assigns value to key and reports whether key is recognised.
func (t *CustomTheme) Set(key ThemeKey, value string) bool {
	f := t.field(key)
	if f == nil {
		return false
	}
	*f = value
	return true
}

// NormalizeTheme backfills every empty key of partial with its default.
func NormalizeTheme(partial CustomTheme) CustomTheme {
	def := DefaultCustomTheme()
	for _, k := range ThemeKeys() {
		if strings.TrimSpace(partial.Get(k)) == "" {
			partial.Set(k, def.Get(k))
		}
	}
	return partial
}

var namedPalettes = map[ThemeName]CustomTheme{
	ThemeDefault: DefaultCustomTheme(),
	ThemeDark: {
		Bg: "#111111", Surface: "#1f1f1f", Text: "#ffffff",
		Primary: "#ff00cc", Secondary: "#7c3aed", Accent: "#22d3ee", Font: "Inter",
	},
	ThemeOcean: {
		Bg: "#0f172a", Surface: "#1e293b", Text: "#e2e8f0",
		Primary: "#38bdf8", Secondary: "#0ea5e9", Accent: "#14b8a6", Font: "Inter",
	},
	ThemeSunset: {
		Bg: "#4a0404", Surface: "#6b0f0f", Text: "#ffe4e6",
		Primary: "#fbbf24", Secondary: "#f97316", Accent: "#fb7185", Font: "Inter",
	},
}

// ResolvePalette returns the colours a renderer should use for meta: the
// custom theme when Theme is custom, otherwise the named preset.
func ResolvePalette(meta Meta) CustomTheme {
	if meta.Theme == ThemeCustom {
		return NormalizeTheme(meta.CustomTheme)
	}
	if p, ok := namedPalettes[meta.Theme]; ok {
		return p
	}
	return namedPalettes[ThemeDefault]
}

// ThemePatch is a partial palette as accepted by ApplyThemeJSON. Empty fields
// are left untouched.
type ThemePatch struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Surface    string `json:"surface,omitempty"`
	Text       string `json:"text,omitempty"`
	Font       string `json:"font,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ThemePatch) Empty() bool {
	return p == ThemePatch{}
}

// Validate reports the first colour field that is set but not a hex colour.
func (p ThemePatch) Validate() error {
	for _, f := range []struct{ name, v string }{
		{"primary", p.Primary},
		{"secondary", p.Secondary},
		{"accent", p.Accent},
		{"background", p.Background},
		{"surface", p.Surface},
		{"text", p.Text},
	} {
		if f.v != "" && !ValidColor(f.v) {
			return fmt.Errorf("theme %s: invalid colour %q", f.name, f.v)
		}
	}
	return nil
}

// Apply copies the non-empty fields of p onto t.
func (p ThemePatch) Apply(t *CustomTheme) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&t.Primary, p.Primary)
	set(&t.Secondary, p.Secondary)
	set(&t.Accent, p.Accent)
	set(&t.Bg, p.Background)
	set(&t.Surface, p.Surface)
	set(&t.Text, p.Text)
	set(&t.Font, p.Font)
}

// ParseThemeJSON decodes a theme patch from its JSON form.
func ParseThemeJSON(data []byte) (ThemePatch, error) {
	var p ThemePatch
	if err := json.Unmarshal(data, &p); err != nil {
		return ThemePatch{}, fmt.Errorf("parse theme json: %w", err)
	}
	if p.Empty() {
		return ThemePatch{}, fmt.Errorf("parse theme json: no recognised keys")
	}
	return p, nil
}

// ValidColor reports whether v parses as a #rrggbb or #rgb colour.
func ValidColor(v string) bool {
	_, err := colorful.Hex(expandShortHex(v))
	return err == nil
}

func expandShortHex(v string) string {
	if len(v) == 4 && v[0] == '#' {
		return string([]byte{'#', v[1], v[1], v[2], v[2], v[3], v[3]})
	}
	return v
}

var randomFonts = []string{"Inter", "Roboto", "Playfair Display", "Montserrat", "Lato", "Courier Prime"}

// RandomTheme derives a palette from a random hue: the primary at the hue,
// a complementary secondary and a triadic accent, over a light or dark base.
func RandomTheme(rng *rand.Rand) CustomTheme {
	hue := float64(rng.IntN(360))
	hsl := func(h, s, l float64) string {
		return colorful.Hsl(float64(int(h)%360), s, l).Clamped().Hex()
	}
	t := CustomTheme{
		Primary:   hsl(hue, 0.70, 0.50),
		Secondary: hsl(hue+180, 0.60, 0.60),
		Accent:    hsl(hue+90, 0.80, 0.50),
		Font:      randomFonts[rng.IntN(len(randomFonts))],
	}
	if rng.IntN(2) == 0 {
		t.Bg, t.Surface, t.Text = "#1a1a1a", "#2a2a2a", "#ffffff"
	} else {
		t.Bg, t.Surface, t.Text = "#ffffff", "#f5f5f5", "#333333"
	}
	return t
}
