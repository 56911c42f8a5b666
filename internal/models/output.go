package models

import "fmt"

// Output represents a display output as reported by sway
type Output struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Focused bool   `json:"focused"`

	// Logical geometry in the global layout
	X      int64 `json:"x"`
	Y      int64 `json:"y"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// FormatGeometry returns "WxH @ (X, Y)"
func (o *Output) FormatGeometry() string {
	return fmt.Sprintf("%dx%d @ (%d, %d)", o.Width, o.Height, o.X, o.Y)
}

// OutputNames returns the names of the given outputs in the same order
func OutputNames(outputs []Output) []string {
	names := make([]string, len(outputs))
	for i, o := range outputs {
		names[i] = o.Name
	}
	return names
}

// OrderingEntry is one line of the monitor ordering file.
// Only Name takes part in indexing; X, Y and Primary feed the
// generated sway output positions.
type OrderingEntry struct {
	Name    string `json:"name"`
	X       int64  `json:"x"`
	Y       int64  `json:"y"`
	Primary bool   `json:"primary"`
}

// EntryNames returns the identifiers of the given entries in order
func EntryNames(entries []OrderingEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
