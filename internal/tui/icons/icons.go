// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// nerdFontTerminals commonly ship with a Nerd Font configured
var nerdFontTerminals = []string{
	"iTerm.app",
	"alacritty",
	"WezTerm",
	"kitty",
	"ghostty",
}

func detectNerdFonts() bool {
	if env := os.Getenv("CAMPAIGN_WATCH_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Status indicators
	CheckOK  = Icon{"\uf058", "✓"} // nf-fa-check_circle
	Warning  = Icon{"\uf071", "⚠"} // nf-fa-warning
	Critical = Icon{"\uf057", "✗"} // nf-fa-times_circle
	Info     = Icon{"\uf05a", "ℹ"} // nf-fa-info_circle

	// Screens and actions
	Refresh   = Icon{"󰑓", "↻"} // nf-md-refresh
	Clients   = Icon{"󰡉", "▤"} // nf-md-office_building
	Dashboard = Icon{"󰕮", "▦"} // nf-md-view_dashboard
	Filter    = Icon{"󰈲", "⌕"} // nf-md-filter
	Logout    = Icon{"󰍃", "⇥"} // nf-md-logout
	Quit      = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Calendar  = Icon{"󰃭", "◷"} // nf-md-calendar
	User      = Icon{"󰀄", "☺"} // nf-md-account

	App = Icon{"󰐱", "◉"} // nf-md-radar
)
