package models

// Contact is an address-book entry. Only bare ids cross the wire during
// sync; the receiving side resolves unknown ids through its own directory.
type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Tag  string `json:"tag,omitempty"`
}
