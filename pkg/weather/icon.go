package weather

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Icon is a bundled condition icon drawn as a terminal glyph.
type Icon struct {
	Name  string
	Glyph string
}

// Bundled icons; IconFallback is the generic cloud for unknown keywords.
var (
	IconClear    = Icon{Name: "clear", Glyph: "☀"}
	IconClouds   = Icon{Name: "clouds", Glyph: "🌥"}
	IconRain     = Icon{Name: "rain", Glyph: "🌧"}
	IconSnow     = Icon{Name: "snow", Glyph: "❄"}
	IconWind     = Icon{Name: "wind", Glyph: "🌬"}
	IconFallback = Icon{Name: "cloud", Glyph: "☁"}
)

var icons = map[string]Icon{
	"clear":  IconClear,
	"clouds": IconClouds,
	"rain":   IconRain,
	"snow":   IconSnow,
	"wind":   IconWind,
}

// MapConditionToIcon picks the display icon for a provider condition keyword.
// Matching ignores case; unknown keywords get the generic cloud.
func MapConditionToIcon(keyword string) Icon {
	if icon, ok := icons[cases.Fold().String(keyword)]; ok {
		return icon
	}
	return IconFallback
}

// Label is the icon name in title case, e.g. "Clouds".
// Casers hold state, so each call gets its own.
func (i Icon) Label() string {
	return cases.Title(language.English).String(i.Name)
}
