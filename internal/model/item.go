package model

import "strings"

// Item is a single record as returned by the detail endpoint.
// ShowDetails is client-only state and is never sent to the server.
type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Status      Status `json:"status"`
	ShowDetails bool   `json:"-"`
}

// Summary is the partial item representation returned by the list endpoint.
type Summary struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}

// Draft holds the editable fields of an item before submission.
// The zero value is an empty draft with status 0.
type Draft struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Status Status `json:"status"`
}

// Clone returns an independent copy of the item.
func (i Item) Clone() Item {
	return i
}

// Draft returns a draft seeded from the item's editable fields.
func (i Item) Draft() Draft {
	return Draft{Title: i.Title, Text: i.Text, Status: i.Status}
}

// Apply builds the full item sent on update.
func (d Draft) Apply(id int64) Item {
	return Item{ID: id, Title: d.Title, Text: d.Text, Status: d.Status}
}

// Missing returns the names of required fields that are blank.
func (d Draft) Missing() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Text) == "" {
		missing = append(missing, "text")
	}
	return missing
}

// IsZero reports whether the draft has no content.
func (d Draft) IsZero() bool {
	return d == Draft{}
}
