package components

import "time"

// UI component constants
const (
	// DetailReservedLines is the number of lines the detail view uses for its
	// title, separator and scroll indicator
	DetailReservedLines = 3

	// StatusBarDisplayDuration is how long status messages stay visible
	StatusBarDisplayDuration = 5 * time.Second
)
