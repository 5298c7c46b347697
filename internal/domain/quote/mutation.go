package quote

// Every function in this file takes a quote value and returns a new one.
// The argument is never modified. References to unknown space or item IDs
// are no-ops that return the input unchanged.

// AddSpace appends an empty space named after its position
func AddSpace(q Quote, ids IDGenerator) Quote {
	next := q.Clone()
	next.Spaces = append(next.Spaces, Space{
		ID:    ids.NewID(),
		Name:  DefaultSpaceName(len(q.Spaces) + 1),
		Items: make([]CabinetItem, 0),
	})
	return next
}

// UpdateSpace replaces the matching space's fields with the patch
func UpdateSpace(q Quote, spaceID string, patch SpacePatch) Quote {
	idx := q.spaceIndex(spaceID)
	if idx < 0 {
		return q
	}
	next := q.Clone()
	next.Spaces[idx] = next.Spaces[idx].Apply(patch)
	return next
}

// DeleteSpace removes the matching space together with all of its items
func DeleteSpace(q Quote, spaceID string) Quote {
	idx := q.spaceIndex(spaceID)
	if idx < 0 {
		return q
	}
	next := q.Clone()
	next.Spaces = append(next.Spaces[:idx], next.Spaces[idx+1:]...)
	return next
}

// AddItem appends a default cabinet item to the matching space
func AddItem(q Quote, spaceID string, ids IDGenerator) Quote {
	idx := q.spaceIndex(spaceID)
	if idx < 0 {
		return q
	}
	next := q.Clone()
	next.Spaces[idx].Items = append(next.Spaces[idx].Items, NewCabinetItem(ids.NewID()))
	return next
}

// UpdateItem replaces the matching item's fields with the patch
func UpdateItem(q Quote, spaceID, itemID string, patch CabinetItemPatch) Quote {
	if patch.IsEmpty() {
		return q
	}
	sIdx, iIdx := q.itemIndex(spaceID, itemID)
	if iIdx < 0 {
		return q
	}
	next := q.Clone()
	next.Spaces[sIdx].Items[iIdx] = next.Spaces[sIdx].Items[iIdx].Apply(patch)
	return next
}

// DeleteItem removes the matching item from its space
func DeleteItem(q Quote, spaceID, itemID string) Quote {
	sIdx, iIdx := q.itemIndex(spaceID, itemID)
	if iIdx < 0 {
		return q
	}
	next := q.Clone()
	items := next.Spaces[sIdx].Items
	next.Spaces[sIdx].Items = append(items[:iIdx], items[iIdx+1:]...)
	return next
}

// UpdateClientField replaces one client metadata field by name
func UpdateClientField(q Quote, field ClientField, value string) (Quote, error) {
	client, err := q.Client.With(field, value)
	if err != nil {
		return q, err
	}
	next := q.Clone()
	next.Client = client
	return next, nil
}

func (q Quote) itemIndex(spaceID, itemID string) (int, int) {
	sIdx := q.spaceIndex(spaceID)
	if sIdx < 0 {
		return -1, -1
	}
	for iIdx := range q.Spaces[sIdx].Items {
		if q.Spaces[sIdx].Items[iIdx].ID == itemID {
			return sIdx, iIdx
		}
	}
	return sIdx, -1
}
