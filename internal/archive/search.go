package archive

import "strings"

// TagFilter selects entries carrying a tag with this name and colour.
type TagFilter struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Query is a free-text search combined with optional tag filters.
type Query struct {
	Text string
	Tags []TagFilter
}

// Active reports whether the query narrows anything.
func (q Query) Active() bool {
	return strings.TrimSpace(q.Text) != "" || len(q.Tags) > 0
}

// Matches reports whether e satisfies q. Free text matches a tag name or the
// description, case-insensitively. When tag filters are set the entry must
// also carry at least one of them.
func (q Query) Matches(e Entry) bool {
	if !q.Active() {
		return true
	}
	if len(q.Tags) > 0 && q.filterTag(e) < 0 {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Description), text) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag.Name), text) {
			return true
		}
	}
	return false
}

// MatchIDs returns the IDs of entries matching q.
func (q Query) MatchIDs(entries []Entry) map[string]bool {
	matched := make(map[string]bool)
	if !q.Active() {
		return matched
	}
	for _, e := range entries {
		if q.Matches(e) {
			matched[e.ID] = true
		}
	}
	return matched
}

// Filter returns the entries matching q in their original order.
func Filter(entries []Entry, q Query) []Entry {
	if !q.Active() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// DisplayTag picks the tag that represents e while q is active: a tag
// matching an active filter, else an exact tag-name match, else a partial
// match, else the first tag. Untagged entries report false.
func DisplayTag(e Entry, q Query) (Tag, bool) {
	if len(e.Tags) == 0 {
		return Tag{}, false
	}
	if !q.Matches(e) {
		return e.Tags[0], true
	}
	if len(q.Tags) > 0 {
		if i := q.filterTag(e); i >= 0 {
			return e.Tags[i], true
		}
		return e.Tags[0], true
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return e.Tags[0], true
	}
	for _, tag := range e.Tags {
		if strings.ToLower(tag.Name) == text {
			return tag, true
		}
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag.Name), text) {
			return tag, true
		}
	}
	return e.Tags[0], true
}

func (q Query) filterTag(e Entry) int {
	for i, tag := range e.Tags {
		for _, f := range q.Tags {
			if tag.Name == f.Name && strings.EqualFold(tag.Color, f.Color) {
				return i
			}
		}
	}
	return -1
}
