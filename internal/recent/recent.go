// Package recent keeps the bounded, most-recent-first list of opened ROM files.
package recent

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxItems is the number of entries the list retains.
const MaxItems = 10

// NoArchive is the archive index of a ROM that was opened directly rather
// than from inside an archive.
const NoArchive = -1

// Item is a single recently opened file.
type Item struct {
	Path         string `toml:"path" json:"path"`
	RomName      string `toml:"rom_name" json:"rom_name"`
	ArchiveIndex int    `toml:"archive_index" json:"archive_index"`
}

// Key identifies an item. Two items with the same path but a different
// archive index are different entries.
type Key struct {
	Path         string
	ArchiveIndex int
}

// Key returns the identity key of the item.
func (i Item) Key() Key {
	return Key{Path: i.Path, ArchiveIndex: i.ArchiveIndex}
}

// Validate reports whether the item can be stored in a settings file.
func (i Item) Validate() error {
	switch {
	case i.Path == "":
		return errors.New("recent file: empty path")
	case !utf8.ValidString(i.Path):
		return fmt.Errorf("recent file %q: path is not valid UTF-8", i.Path)
	case i.ArchiveIndex < NoArchive:
		return fmt.Errorf("recent file %s: archive index %d is below %d", i.Path, i.ArchiveIndex, NoArchive)
	}
	return nil
}

// String renders the item for list displays.
func (i Item) String() string {
	name := i.RomName
	if name == "" {
		name = i.Path
	}
	if i.ArchiveIndex > NoArchive {
		return fmt.Sprintf("%s [%d]", name, i.ArchiveIndex)
	}
	return name
}

// List is ordered most recent first and holds at most MaxItems entries
// with distinct keys.
type List []Item

// Add moves (or inserts) the item to the front of the list. Any entry sharing
// its key is dropped and the tail is cut back to MaxItems.
func (l *List) Add(item Item) {
	key := item.Key()
	out := make(List, 0, len(*l)+1)
	out = append(out, item)
	for _, existing := range *l {
		if existing.Key() == key {
			continue
		}
		out = append(out, existing)
	}
	if len(out) > MaxItems {
		out = out[:MaxItems]
	}
	*l = out
}

// Unique returns the list with every entry whose key already appeared
// earlier removed. The result is never nil.
func (l List) Unique() List {
	seen := make(map[Key]struct{}, len(l))
	out := make(List, 0, len(l))
	for _, item := range l {
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Find returns the entry with the given key.
func (l List) Find(key Key) (Item, bool) {
	for _, item := range l {
		if item.Key() == key {
			return item, true
		}
	}
	return Item{}, false
}

// Keys returns the identity keys in list order.
func (l List) Keys() []Key {
	keys := make([]Key, 0, len(l))
	for _, item := range l {
		keys = append(keys, item.Key())
	}
	return keys
}

// Len returns the number of items.
func (l List) Len() int {
	return len(l)
}
