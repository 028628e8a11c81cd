package models

// Device maps a self-declared device identifier to a display name. Entries
// are created or overwritten on first authenticated use and never deleted.
type Device struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
