package content

import (
	"fmt"

	"github.com/pkg/errors"
)

// Post is a single editorial entry, as published in the spreadsheet.
type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Tag      string `json:"tag"`
	Date     string `json:"date"`
	Img      string `json:"img"`
	Span     string `json:"span"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`

	Featured bool `json:"featured"`
	Trending bool `json:"trending"`
	Hero     bool `json:"hero"`
}

func (p Post) String() string {
	return fmt.Sprintf("%s (%s)", p.Title, p.ID)
}

// Validate reports whether the post carries the fields every renderer
// depends on.
func (p Post) Validate() error {
	if p.ID == "" {
		return NewValidationError(errors.Errorf("post %q has no id", p.Title))
	}

	if p.Title == "" {
		return NewValidationError(errors.Errorf("post %s has no title", p.ID))
	}

	return nil
}
