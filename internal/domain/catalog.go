package domain

import "strings"

// CatalogEntry is one row of remote reference data (task type, project,
// category or activity). Entries missing either field are dropped at decode
// time rather than propagated half-filled.
type CatalogEntry struct {
	ID   string
	Name string
}

// Catalog caches the reference data fetched for one logged-in session, so UI
// flows can avoid refetching. The remote service is the source of truth; the
// client never invalidates this cache itself.
type Catalog struct {
	TaskTypes  []CatalogEntry
	Projects   []CatalogEntry
	Categories []CatalogEntry
	Activities []CatalogEntry
}

func FindEntryByID(entries []CatalogEntry, id string) (CatalogEntry, bool) {
	for _, entry := range entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// FindEntryByName matches case-insensitively on a name substring, the same
// convenience lookup the interactive flows use.
func FindEntryByName(entries []CatalogEntry, name string) (CatalogEntry, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return CatalogEntry{}, false
	}
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}
