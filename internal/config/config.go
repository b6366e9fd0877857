package config

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Config holds the application configuration
type Config struct {
	Theme         Theme
	ThemePreset   ThemePreset
	HighContrast  bool
	TabSize       int
	DateFormat    string
	BatchSize     int     // commits pulled per fetch
	DiffBatchSize int     // diff lines pulled per fetch
	ListRatio     float64 // share of the screen given to the commit list
	Keybindings   Keybindings
}

// ThemePreset describes a named theme configuration.
type ThemePreset string

const (
	PresetDefault  ThemePreset = "default"
	PresetSolarize ThemePreset = "solarized"
	PresetDracula  ThemePreset = "dracula"
)

// Keybindings maps semantic actions to one or more key sequences.
type Keybindings map[string][]string

// Actions understood by the key map.
const (
	ActionQuit         = "quit"
	ActionToggleHelp   = "toggle_help"
	ActionSwitchFocus  = "switch_focus"
	ActionScrollDown   = "scroll_down"
	ActionScrollUp     = "scroll_up"
	ActionPageDown     = "page_down"
	ActionPageUp       = "page_up"
	ActionHalfPageDown = "half_page_down"
	ActionHalfPageUp   = "half_page_up"
	ActionGoTop        = "go_top"
	ActionGoBottom     = "go_bottom"
	ActionCopyID       = "copy_id"
)

// Theme defines the color scheme for the application
type Theme struct {
	AddedFg     lipgloss.Color
	RemovedFg   lipgloss.Color
	HunkFg      lipgloss.Color
	MetaFg      lipgloss.Color
	UnchangedFg lipgloss.Color
	HashFg      lipgloss.Color
	AuthorFg    lipgloss.Color
	DateFg      lipgloss.Color
	BranchFg    lipgloss.Color
	TagFg       lipgloss.Color
	HeadFg      lipgloss.Color
	SelectedBg  lipgloss.Color
	BorderFg    lipgloss.Color
	FocusFg     lipgloss.Color
	TitleFg     lipgloss.Color
	TitleBg     lipgloss.Color
	HelpFg      lipgloss.Color
	NoticeFg    lipgloss.Color
	ScrollbarFg lipgloss.Color
	LanePalette []lipgloss.Color
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ThemePreset:   PresetDefault,
		Theme:         ThemeForPreset(PresetDefault, false),
		HighContrast:  false,
		TabSize:       4,
		DateFormat:    "2006-01-02 15:04",
		BatchSize:     200,
		DiffBatchSize: 1000,
		ListRatio:     0.4,
		Keybindings:   DefaultKeybindings(),
	}
}

// DefaultTheme returns the default color theme
func DefaultTheme() Theme {
	return Theme{
		AddedFg:     lipgloss.Color("#A8E6A3"),
		RemovedFg:   lipgloss.Color("#E6A3A3"),
		HunkFg:      lipgloss.Color("#87AFFF"),
		MetaFg:      lipgloss.Color("#D7AF5F"),
		UnchangedFg: lipgloss.Color("#B0B0B0"),
		HashFg:      lipgloss.Color("#D7AF5F"),
		AuthorFg:    lipgloss.Color("#87AFAF"),
		DateFg:      lipgloss.Color("#808080"),
		BranchFg:    lipgloss.Color("#87D787"),
		TagFg:       lipgloss.Color("#FFD75F"),
		HeadFg:      lipgloss.Color("#5FD7FF"),
		SelectedBg:  lipgloss.Color("#3A3A5F"),
		BorderFg:    lipgloss.Color("#3A3A3A"),
		FocusFg:     lipgloss.Color("#8787FF"),
		TitleFg:     lipgloss.Color("#FFFFFF"),
		TitleBg:     lipgloss.Color("#5F5FAF"),
		HelpFg:      lipgloss.Color("#888888"),
		NoticeFg:    lipgloss.Color("#FF5F5F"),
		ScrollbarFg: lipgloss.Color("#5F5F87"),
		LanePalette: []lipgloss.Color{
			"#5FAFFF", "#87D75F", "#FFAF5F", "#D787D7", "#5FD7D7", "#FF875F", "#AFAF5F",
		},
	}
}

// ThemeForPreset resolves a preset name to a concrete Theme, optionally
// applying a high-contrast variation.
func ThemeForPreset(preset ThemePreset, highContrast bool) Theme {
	switch preset {
	case PresetSolarize:
		theme := DefaultTheme()
		theme.AddedFg = lipgloss.Color("#859900")
		theme.RemovedFg = lipgloss.Color("#DC322F")
		theme.HunkFg = lipgloss.Color("#268BD2")
		theme.MetaFg = lipgloss.Color("#B58900")
		theme.UnchangedFg = lipgloss.Color("#93A1A1")
		theme.HashFg = lipgloss.Color("#B58900")
		theme.AuthorFg = lipgloss.Color("#2AA198")
		theme.DateFg = lipgloss.Color("#586E75")
		theme.BranchFg = lipgloss.Color("#859900")
		theme.TagFg = lipgloss.Color("#CB4B16")
		theme.HeadFg = lipgloss.Color("#268BD2")
		theme.SelectedBg = lipgloss.Color("#073642")
		theme.BorderFg = lipgloss.Color("#657B83")
		theme.FocusFg = lipgloss.Color("#6C71C4")
		theme.TitleFg = lipgloss.Color("#EEE8D5")
		theme.TitleBg = lipgloss.Color("#586E75")
		theme.HelpFg = lipgloss.Color("#93A1A1")
		theme.LanePalette = []lipgloss.Color{
			"#268BD2", "#859900", "#B58900", "#D33682", "#2AA198", "#CB4B16", "#6C71C4",
		}
		return applyContrast(theme, highContrast)
	case PresetDracula:
		theme := DefaultTheme()
		theme.AddedFg = lipgloss.Color("#50FA7B")
		theme.RemovedFg = lipgloss.Color("#FF5555")
		theme.HunkFg = lipgloss.Color("#8BE9FD")
		theme.MetaFg = lipgloss.Color("#F1FA8C")
		theme.UnchangedFg = lipgloss.Color("#F8F8F2")
		theme.HashFg = lipgloss.Color("#F1FA8C")
		theme.AuthorFg = lipgloss.Color("#8BE9FD")
		theme.DateFg = lipgloss.Color("#6272A4")
		theme.BranchFg = lipgloss.Color("#50FA7B")
		theme.TagFg = lipgloss.Color("#FFB86C")
		theme.HeadFg = lipgloss.Color("#FF79C6")
		theme.SelectedBg = lipgloss.Color("#44475A")
		theme.BorderFg = lipgloss.Color("#44475A")
		theme.FocusFg = lipgloss.Color("#BD93F9")
		theme.TitleFg = lipgloss.Color("#F8F8F2")
		theme.TitleBg = lipgloss.Color("#6272A4")
		theme.HelpFg = lipgloss.Color("#BD93F9")
		theme.LanePalette = []lipgloss.Color{
			"#BD93F9", "#50FA7B", "#FFB86C", "#FF79C6", "#8BE9FD", "#F1FA8C", "#FF5555",
		}
		return applyContrast(theme, highContrast)
	default:
		return applyContrast(DefaultTheme(), highContrast)
	}
}

// LaneColor returns the color used to draw lane.
func (t Theme) LaneColor(lane int) lipgloss.Color {
	if len(t.LanePalette) == 0 || lane < 0 {
		return t.UnchangedFg
	}
	return t.LanePalette[lane%len(t.LanePalette)]
}

// DefaultKeybindings returns the built-in keybinding map.
func DefaultKeybindings() Keybindings {
	return Keybindings{
		ActionQuit:         {"ctrl+c", "q"},
		ActionToggleHelp:   {"?"},
		ActionSwitchFocus:  {"tab", "shift+tab"},
		ActionScrollDown:   {"j", "down"},
		ActionScrollUp:     {"k", "up"},
		ActionPageDown:     {"pgdown", "ctrl+f"},
		ActionPageUp:       {"pgup", "ctrl+b"},
		ActionHalfPageDown: {"ctrl+d"},
		ActionHalfPageUp:   {"ctrl+u"},
		ActionGoTop:        {"g", "home"},
		ActionGoBottom:     {"G", "end"},
		ActionCopyID:       {"y"},
	}
}

// MergeKeybindings overlays user overrides onto defaults.
func MergeKeybindings(overrides Keybindings) Keybindings {
	defaults := DefaultKeybindings()
	for action, keys := range overrides {
		if len(keys) == 0 {
			continue
		}
		defaults[action] = keys
	}
	return defaults
}

// Validate reports settings that cannot be honored.
func (c *Config) Validate() error {
	switch c.ThemePreset {
	case PresetDefault, PresetSolarize, PresetDracula:
	default:
		return fmt.Errorf("unknown theme %q", c.ThemePreset)
	}
	if c.TabSize < 1 || c.TabSize > 16 {
		return fmt.Errorf("tab size must be between 1 and 16, got %d", c.TabSize)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.DiffBatchSize < 1 {
		return fmt.Errorf("diff batch size must be positive, got %d", c.DiffBatchSize)
	}
	if c.ListRatio <= 0 || c.ListRatio >= 1 {
		return fmt.Errorf("list ratio must be between 0 and 1, got %g", c.ListRatio)
	}

	known := DefaultKeybindings()
	var unknown []string
	for action := range c.Keybindings {
		if _, ok := known[action]; !ok {
			unknown = append(unknown, action)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown keybinding actions: %v", unknown)
	}
	return nil
}

func applyContrast(theme Theme, highContrast bool) Theme {
	if !highContrast {
		return theme
	}

	boost := func(c lipgloss.Color, factor float64) lipgloss.Color {
		return lipgloss.Color(adjustBrightness(string(c), factor))
	}
	palette := make([]lipgloss.Color, len(theme.LanePalette))
	for i, c := range theme.LanePalette {
		palette[i] = boost(c, 0.25)
	}

	return Theme{
		AddedFg:     boost(theme.AddedFg, 0.25),
		RemovedFg:   boost(theme.RemovedFg, 0.25),
		HunkFg:      boost(theme.HunkFg, 0.25),
		MetaFg:      boost(theme.MetaFg, 0.2),
		UnchangedFg: boost(theme.UnchangedFg, 0.2),
		HashFg:      boost(theme.HashFg, 0.2),
		AuthorFg:    boost(theme.AuthorFg, 0.2),
		DateFg:      boost(theme.DateFg, 0.2),
		BranchFg:    boost(theme.BranchFg, 0.2),
		TagFg:       boost(theme.TagFg, 0.2),
		HeadFg:      boost(theme.HeadFg, 0.2),
		SelectedBg:  boost(theme.SelectedBg, 0.15),
		BorderFg:    boost(theme.BorderFg, 0.2),
		FocusFg:     boost(theme.FocusFg, 0.2),
		TitleFg:     boost(theme.TitleFg, 0.2),
		TitleBg:     boost(theme.TitleBg, 0.2),
		HelpFg:      boost(theme.HelpFg, 0.2),
		NoticeFg:    boost(theme.NoticeFg, 0.2),
		ScrollbarFg: boost(theme.ScrollbarFg, 0.2),
		LanePalette: palette,
	}
}

func adjustBrightness(hex string, factor float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}

	var r, g, b int
	_, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return hex
	}

	boost := func(value int) int {
		adjusted := float64(value) * (1 + factor)
		if adjusted > 255 {
			adjusted = 255
		}
		return int(adjusted)
	}

	return fmt.Sprintf("#%02x%02x%02x", boost(r), boost(g), boost(b))
}
