// Package archive defines timeline entries and the ways tideline reads them.
//
// # Overview
//
// An Entry is a dated record with tags, a description, and an optional image
// link. Entries flow into the layout engine as read-only snapshots, so this
// package has no notion of positions or zoom. It provides:
//
//   - entry.go: Entry, Tag, NewEntry, date parsing and validation
//   - source.go: the Source/Writer seams implemented by the sqlite store and
//     the HTTP client
//   - client.go: HTTP client for a remote tideline API
//   - search.go: free-text and tag-filter matching, display tag selection
//   - stats.go: archive statistics (streaks, heatmap, tag usage, keywords)
//   - importer.go: YAML/JSON bulk import
//
// # Dates
//
// Entry.Date holds either a calendar day (2006-01-02) or an RFC 3339
// timestamp. Calendar days are interpreted in the configured location. An
// entry whose date is empty or unparseable stays in the archive but is left
// off the timeline.
//
// # Wire Format
//
//	{
//	  "id": "5f0c...",
//	  "date": "2025-06-01",
//	  "description": "first swim of the year",
//	  "tags": [{"id": "...", "name": "sport", "color": "#7E9CD8"}],
//	  "image_url": "https://..."
//	}
package archive
