package domain

// ThemeColor is the stored display preference.
type ThemeColor string

const (
	ThemePurple ThemeColor = "purple"
	ThemeBlue   ThemeColor = "blue"
	ThemeGreen  ThemeColor = "green"
)

const (
	accentPurple = "#bc13fe"
	accentBlue   = "#00f2ff"
	accentGreen  = "#39ff14"
)

// Accent maps a theme preference to its display accent color. Total: any
// unset or unknown value resolves to the purple default. Callers must
// re-resolve whenever the User record changes; the result is never cached.
func (c ThemeColor) Accent() string {
	switch c {
	case ThemeBlue:
		return accentBlue
	case ThemeGreen:
		return accentGreen
	default:
		return accentPurple
	}
}

// AccentFor resolves the accent for a possibly absent user.
func AccentFor(user *User) string {
	if user == nil {
		return ThemePurple.Accent()
	}
	return user.ThemeColor.Accent()
}
