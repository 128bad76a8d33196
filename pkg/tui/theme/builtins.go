// ABOUTME: Built-in themes: default, dark, light, monochrome
// ABOUTME: Provides Builtin(name) lookup and BuiltinNames() enumeration

package theme

var builtins = map[string]*Theme{
	"default": {
		Name:    "default",
		Palette: DefaultPalette(),
	},
	"dark": {
		Name: "dark",
		Palette: Palette{
			Primary: NewColor("\x1b[97m"),
			Muted:   NewColor("\x1b[2m"),
			Accent:  NewColor("\x1b[38;5;117m"),

			Warning: NewColor("\x1b[38;5;221m"),
			Error:   NewColor("\x1b[38;5;203m"),

			Bold:      NewColor("\x1b[1m"),
			Underline: NewColor("\x1b[4m"),
		},
	},
	"light": {
		Name: "light",
		Palette: Palette{
			Primary: NewColor("\x1b[30m"),
			Muted:   NewColor("\x1b[2m"),
			Accent:  NewColor("\x1b[38;5;25m"),

			Warning: NewColor("\x1b[38;5;130m"),
			Error:   NewColor("\x1b[38;5;160m"),

			Bold:      NewColor("\x1b[1m"),
			Underline: NewColor("\x1b[4m"),
		},
	},
	"monochrome": {
		Name: "monochrome",
		Palette: Palette{
			Primary: NewColor("\x1b[0m"),
			Muted:   NewColor("\x1b[2m"),
			Accent:  NewColor("\x1b[1m"),

			Warning: NewColor("\x1b[1m"),
			Error:   NewColor("\x1b[1m\x1b[4m"),

			Bold:      NewColor("\x1b[1m"),
			Underline: NewColor("\x1b[4m"),
		},
	},
}

// Builtin returns a built-in theme by name, or nil if unknown.
func Builtin(name string) *Theme {
	return builtins[name]
}

// BuiltinNames returns the names of all built-in themes.
func BuiltinNames() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
