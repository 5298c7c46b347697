package quote

import "fmt"

// Space is a named, ordered collection of cabinet items (e.g. a room)
type Space struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Items []CabinetItem `json:"items"`
}

// DefaultSpaceName returns the display label for the n-th space (1-based)
func DefaultSpaceName(n int) string {
	return fmt.Sprintf("Space #%d", n)
}

// SpacePatch is a partial update for a space. Nil fields are left unchanged.
type SpacePatch struct {
	Name *string
}

// Apply returns a copy of the space with the patch fields replaced
func (s Space) Apply(p SpacePatch) Space {
	if p.Name != nil {
		s.Name = *p.Name
	}
	return s
}

// ItemCount returns the number of items in the space
func (s Space) ItemCount() int {
	return len(s.Items)
}

func (s Space) clone() Space {
	items := make([]CabinetItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
