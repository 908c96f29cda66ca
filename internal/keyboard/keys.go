package keyboard

// Keys holds the keyboard shortcuts of the topology browser
type Keys struct {
	// Filtering
	FilterActivate string // Start typing a fuzzy filter
	Back           string // Close detail view or clear filter

	// Node operations
	YAML     string // View YAML of the node's resource
	Describe string // Describe the node's resource
	CopyURL  string // Copy the route URL
	CopyEdit string // Copy the edit URL

	// Navigation
	Up         string
	Down       string
	JumpTop    string
	JumpBottom string
	NextScreen   string // Cycle nodes, edges and groups
	ScreenPicker string // Pick a screen from a list
	Help         string

	// Display filters
	ToggleEventSources    string
	ToggleKnativeServices string

	// Global
	Quit    string
	Refresh string
}

// Default returns the default keyboard configuration
func Default() *Keys {
	return &Keys{
		FilterActivate: "/",
		Back:           "esc",

		YAML:     "y",
		Describe: "d",
		CopyURL:  "u",
		CopyEdit: "e",

		Up:         "k",
		Down:       "j",
		JumpTop:    "g",
		JumpBottom: "G",
		NextScreen:   "tab",
		ScreenPicker: "s",
		Help:         "?",

		ToggleEventSources:    "E",
		ToggleKnativeServices: "K",

		Quit:    "ctrl+c",
		Refresh: "ctrl+r",
	}
}
