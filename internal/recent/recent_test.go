package recent

import (
	"fmt"
	"math/rand"
	"testing"
)

func item(path string) Item {
	return Item{Path: path, RomName: path + ".nes", ArchiveIndex: NoArchive}
}

func paths(l List) []string {
	out := make([]string, 0, len(l))
	for _, it := range l {
		out = append(out, it.Path)
	}
	return out
}

func TestAddElevenDropsOldest(t *testing.T) {
	var l List
	for _, p := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"} {
		l.Add(item(p))
	}

	want := []string{"K", "J", "I", "H", "G", "F", "E", "D", "C", "B"}
	got := paths(l)
	if len(got) != MaxItems {
		t.Fatalf("len: got %d, want %d", len(got), MaxItems)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddExistingMovesToFront(t *testing.T) {
	l := List{item("B"), item("A")}
	l.Add(Item{Path: "A", RomName: "renamed", ArchiveIndex: NoArchive})

	if len(l) != 2 {
		t.Fatalf("len: got %d, want 2", len(l))
	}
	if l[0].Path != "A" || l[0].RomName != "renamed" {
		t.Errorf("front: got %+v, want A with name renamed", l[0])
	}
	if l[1].Path != "B" {
		t.Errorf("second: got %q, want B", l[1].Path)
	}
}

func TestAddDistinguishesArchiveIndex(t *testing.T) {
	var l List
	l.Add(Item{Path: "games.zip", ArchiveIndex: 0})
	l.Add(Item{Path: "games.zip", ArchiveIndex: 1})
	l.Add(Item{Path: "games.zip", ArchiveIndex: 0})

	if len(l) != 2 {
		t.Fatalf("len: got %d, want 2", len(l))
	}
	if l[0].ArchiveIndex != 0 || l[1].ArchiveIndex != 1 {
		t.Errorf("order: got %v", l.Keys())
	}
}

func TestAddTruncatesOvergrownList(t *testing.T) {
	l := make(List, 0, 15)
	for i := 0; i < 15; i++ {
		l = append(l, item(fmt.Sprintf("old%d", i)))
	}
	l.Add(item("new"))

	if len(l) != MaxItems {
		t.Fatalf("len: got %d, want %d", len(l), MaxItems)
	}
	if l[0].Path != "new" {
		t.Errorf("front: got %q, want new", l[0].Path)
	}
	if l[MaxItems-1].Path != "old8" {
		t.Errorf("tail: got %q, want old8", l[MaxItems-1].Path)
	}
}

func TestAddDropsDuplicateKeysFromLoadedList(t *testing.T) {
	l := List{item("A"), item("B"), item("A")}
	l.Add(item("A"))

	if got := paths(l); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("got %v, want [A B]", got)
	}
}

func TestAddRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		var l List
		var last Item
		for step := 0; step < 40; step++ {
			last = Item{
				Path:         fmt.Sprintf("rom%d", rng.Intn(14)),
				RomName:      fmt.Sprintf("name%d", step),
				ArchiveIndex: rng.Intn(3) - 1,
			}
			l.Add(last)

			if len(l) > MaxItems {
				t.Fatalf("run %d step %d: len %d exceeds %d", run, step, len(l), MaxItems)
			}
			if l[0] != last {
				t.Fatalf("run %d step %d: front %+v, want %+v", run, step, l[0], last)
			}
			seen := make(map[Key]bool, len(l))
			for _, it := range l {
				if seen[it.Key()] {
					t.Fatalf("run %d step %d: duplicate key %+v", run, step, it.Key())
				}
				seen[it.Key()] = true
			}
		}
	}
}

func TestAddDoesNotAliasPreviousSlice(t *testing.T) {
	l := List{item("A"), item("B")}
	before := l
	l.Add(item("C"))

	if before[0].Path != "A" || before[1].Path != "B" {
		t.Errorf("previous slice modified: %v", paths(before))
	}
}

func TestFind(t *testing.T) {
	l := List{item("A"), {Path: "pack.7z", RomName: "Zelda", ArchiveIndex: 2}}

	got, ok := l.Find(Key{Path: "pack.7z", ArchiveIndex: 2})
	if !ok || got.RomName != "Zelda" {
		t.Errorf("Find: got %+v, %v", got, ok)
	}
	if _, ok := l.Find(Key{Path: "pack.7z", ArchiveIndex: 0}); ok {
		t.Error("Find matched a different archive index")
	}
}

func TestItemString(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{"rom name", Item{Path: "/roms/smb.nes", RomName: "Super Mario Bros.", ArchiveIndex: NoArchive}, "Super Mario Bros."},
		{"falls back to path", Item{Path: "/roms/smb.nes", ArchiveIndex: NoArchive}, "/roms/smb.nes"},
		{"archive entry", Item{Path: "/roms/pack.zip", RomName: "Metroid", ArchiveIndex: 3}, "Metroid [3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.String(); got != tt.want {
				t.Errorf("String: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLen(t *testing.T) {
	var l List
	if l.Len() != 0 {
		t.Errorf("Len of nil list: got %d", l.Len())
	}
	l.Add(Item{Path: "a.nes", ArchiveIndex: NoArchive})
	l.Add(Item{Path: "a.nes", ArchiveIndex: NoArchive})
	if l.Len() != 1 {
		t.Errorf("Len after duplicate add: got %d, want 1", l.Len())
	}
}

func TestUnique(t *testing.T) {
	first := Item{Path: "A", RomName: "first", ArchiveIndex: NoArchive}
	l := List{first, item("B"), {Path: "A", RomName: "second", ArchiveIndex: NoArchive}, {Path: "A", ArchiveIndex: 0}}

	got := l.Unique()

	want := List{first, item("B"), {Path: "A", ArchiveIndex: 0}}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if List(nil).Unique() == nil {
		t.Error("Unique of nil should be an empty list")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"plain rom", Item{Path: "/roms/a.nes", ArchiveIndex: NoArchive}, false},
		{"archive entry", Item{Path: "/roms/a.zip", ArchiveIndex: 0}, false},
		{"empty path", Item{ArchiveIndex: NoArchive}, true},
		{"invalid utf-8", Item{Path: "/roms/\xff.nes", ArchiveIndex: NoArchive}, true},
		{"archive index below -1", Item{Path: "/roms/a.zip", ArchiveIndex: -2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.item.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate: err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
