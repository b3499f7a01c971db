package theme

import (
	"strings"
)

// Catalog maps theme names to themes.
var Catalog = map[string]Theme{}

func init() {
	register(DarkTheme)
	register(LightTheme)
}

func register(t Theme) {
	Catalog[normalizeKey(string(t.Mode))] = t
}

// Get returns a theme by name.
func Get(name string) (Theme, bool) {
	t, ok := Catalog[normalizeKey(name)]
	return t, ok
}

// Names returns the registered theme names, dark first.
func Names() []string {
	return []string{string(Dark), string(Light)}
}

// Default returns the default theme.
func Default() Theme {
	return DarkTheme
}

// Resolve looks up a theme by name, falling back to the dark theme.
func Resolve(name string) Theme {
	if t, ok := Get(name); ok {
		return t
	}
	return DarkTheme
}

// Toggle returns the opposite palette.
func Toggle(t Theme) Theme {
	if t.Mode == Light {
		return DarkTheme
	}
	return LightTheme
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
