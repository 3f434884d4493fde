// Package theme defines color themes for the moneytree TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Selected row, active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused panels
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Green        lipgloss.Color
	Orange       lipgloss.Color
	Red          lipgloss.Color
	Yellow       lipgloss.Color
	Blue         lipgloss.Color

	// Tree stages, seed through appletree.
	Seed      lipgloss.Color
	Sapling   lipgloss.Color
	Tree      lipgloss.Color
	AppleTree lipgloss.Color
}

// Active is the currently selected theme.
var Active = Forest

// Forest is the default theme: deep greens with warm bark accents.
var Forest = Theme{
	Name:         "forest",
	Background:   lipgloss.Color("#0F1410"),
	Surface:      lipgloss.Color("#172019"),
	SurfaceHover: lipgloss.Color("#223025"),
	Border:       lipgloss.Color("#2F3B2F"),
	BorderAccent: lipgloss.Color("#6FBF73"),
	TextDim:      lipgloss.Color("#5C6B5C"),
	TextMuted:    lipgloss.Color("#93A38F"),
	TextPrimary:  lipgloss.Color("#F1F5EC"),
	Accent:       lipgloss.Color("#6FBF73"),
	AccentBright: lipgloss.Color("#9BE29F"),
	Green:        lipgloss.Color("#8BC34A"),
	Orange:       lipgloss.Color("#E0913A"),
	Red:          lipgloss.Color("#E05A4F"),
	Yellow:       lipgloss.Color("#E3C14B"),
	Blue:         lipgloss.Color("#5FA8D3"),
	Seed:         lipgloss.Color("#A1887F"),
	Sapling:      lipgloss.Color("#AED581"),
	Tree:         lipgloss.Color("#66BB6A"),
	AppleTree:    lipgloss.Color("#EF5350"),
}

// Orchard is a lighter, sunlit variant.
var Orchard = Theme{
	Name:         "orchard",
	Background:   lipgloss.Color("#1B1A14"),
	Surface:      lipgloss.Color("#25241B"),
	SurfaceHover: lipgloss.Color("#343226"),
	Border:       lipgloss.Color("#4A4635"),
	BorderAccent: lipgloss.Color("#F2B84B"),
	TextDim:      lipgloss.Color("#6E6A55"),
	TextMuted:    lipgloss.Color("#B3AD8F"),
	TextPrimary:  lipgloss.Color("#FBF7E8"),
	Accent:       lipgloss.Color("#F2B84B"),
	AccentBright: lipgloss.Color("#FFD27F"),
	Green:        lipgloss.Color("#A5C85A"),
	Orange:       lipgloss.Color("#E98A3B"),
	Red:          lipgloss.Color("#D9534F"),
	Yellow:       lipgloss.Color("#F2D14B"),
	Blue:         lipgloss.Color("#78A9C9"),
	Seed:         lipgloss.Color("#A68A64"),
	Sapling:      lipgloss.Color("#C5D86D"),
	Tree:         lipgloss.Color("#7FB352"),
	AppleTree:    lipgloss.Color("#E4572E"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("2"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("2"),
	AccentBright: lipgloss.Color("10"),
	Green:        lipgloss.Color("2"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
	Yellow:       lipgloss.Color("11"),
	Blue:         lipgloss.Color("4"),
	Seed:         lipgloss.Color("3"),
	Sapling:      lipgloss.Color("10"),
	Tree:         lipgloss.Color("2"),
	AppleTree:    lipgloss.Color("9"),
}

// All available themes.
var All = []Theme{Forest, Orchard, Terminal}

// ByName returns a theme by its name, defaulting to Forest.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Forest
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
