// Package selection maps persisted catalog keys to list selections and back.
//
// A List is a fixed set of sentinel entries (Auto, optionally SkipSigning)
// followed by the items of a catalog. The catalog is passed on every call and
// may differ between calls; a key persisted against an older catalog that no
// longer exists restores to Auto.
//
// Selections are held as a tagged Selection value. Raw integer indices only
// exist at the UI boundary (Index, FromIndex).
package selection

import "fmt"

// Kind tags a Selection.
type Kind int

const (
	KindAuto Kind = iota
	KindSkipSigning
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindSkipSigning:
		return "skip-signing"
	case KindItem:
		return "item"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Selection is Auto, SkipSigning, or a concrete catalog position.
type Selection struct {
	kind Kind
	pos  int
}

var (
	// Auto lets the build pick an identity or profile.
	Auto = Selection{kind: KindAuto}
	// SkipSigning disables code signing.
	SkipSigning = Selection{kind: KindSkipSigning}
)

// Item selects the catalog entry at pos.
func Item(pos int) Selection {
	if pos < 0 {
		panic(fmt.Sprintf("selection: negative catalog position %d", pos))
	}
	return Selection{kind: KindItem, pos: pos}
}

// Kind returns the selection tag.
func (s Selection) Kind() Kind { return s.kind }

// Position returns the catalog position of an item selection.
func (s Selection) Position() (int, bool) {
	if s.kind != KindItem {
		return 0, false
	}
	return s.pos, true
}

func (s Selection) String() string {
	if s.kind == KindItem {
		return fmt.Sprintf("item[%d]", s.pos)
	}
	return s.kind.String()
}

// Keyed is a catalog entry with a stable persisted key and a display label.
type Keyed interface {
	Key() string
	Label() (string, error)
}

// Sentinel is a list entry that stands for a policy instead of an item.
type Sentinel struct {
	Kind  Kind
	Label string
}

// Persisted is what gets written back to a configuration record. An empty Key
// means no explicit item was chosen.
type Persisted struct {
	Key  string
	Skip bool
}

// List describes one sentinel-prefixed selection list.
type List[T Keyed] struct {
	sentinels []Sentinel
}

// NewList returns a list with the given sentinels in display order. The first
// sentinel must be Auto and no kind may appear twice; anything else panics.
func NewList[T Keyed](sentinels ...Sentinel) List[T] {
	if len(sentinels) == 0 || sentinels[0].Kind != KindAuto {
		panic("selection: list must start with an Auto sentinel")
	}

	seen := make(map[Kind]bool, len(sentinels))
	for _, s := range sentinels {
		if s.Kind == KindItem {
			panic("selection: item kind cannot be a sentinel")
		}
		if seen[s.Kind] {
			panic(fmt.Sprintf("selection: duplicate %s sentinel", s.Kind))
		}
		seen[s.Kind] = true
	}

	return List[T]{sentinels: append([]Sentinel(nil), sentinels...)}
}

// Sentinels returns the number of sentinel entries ahead of the catalog.
func (l List[T]) Sentinels() int { return len(l.sentinels) }

// Len returns the display list length for catalog.
func (l List[T]) Len(catalog []T) int { return len(l.sentinels) + len(catalog) }

// Display returns sentinel labels followed by item labels in catalog order.
// A label that cannot be built fails the whole list.
func (l List[T]) Display(catalog []T) ([]string, error) {
	out := make([]string, 0, l.Len(catalog))
	for _, s := range l.sentinels {
		out = append(out, s.Label)
	}

	for i, item := range catalog {
		label, err := item.Label()
		if err != nil {
			return nil, fmt.Errorf("label item %d: %w", i, err)
		}
		out = append(out, label)
	}

	return out, nil
}

// Restore picks the selection for a persisted key. skip only applies to lists
// with a SkipSigning sentinel. A key that matches nothing restores to Auto.
func (l List[T]) Restore(catalog []T, key string, skip bool) Selection {
	if skip && l.has(KindSkipSigning) {
		return SkipSigning
	}
	if key == "" {
		return Auto
	}

	for i, item := range catalog {
		if item.Key() == key {
			return Item(i)
		}
	}

	return Auto
}

// Persist returns the key and skip flag to store for s. An item position
// outside catalog, or a sentinel this list does not have, panics.
func (l List[T]) Persist(catalog []T, s Selection) Persisted {
	switch s.kind {
	case KindAuto:
		return Persisted{}
	case KindSkipSigning:
		if !l.has(KindSkipSigning) {
			panic("selection: list has no skip-signing entry")
		}
		return Persisted{Skip: true}
	case KindItem:
		if s.pos >= len(catalog) {
			panic(fmt.Sprintf("selection: %s out of range for catalog of %d", s, len(catalog)))
		}
		return Persisted{Key: catalog[s.pos].Key()}
	default:
		panic(fmt.Sprintf("selection: unknown kind %s", s.kind))
	}
}

// Index converts s to a display list index.
func (l List[T]) Index(s Selection) int {
	if s.kind == KindItem {
		return len(l.sentinels) + s.pos
	}

	for i, sent := range l.sentinels {
		if sent.Kind == s.kind {
			return i
		}
	}

	panic(fmt.Sprintf("selection: list has no %s entry", s.kind))
}

// FromIndex converts a display list index into a selection. ok is false when
// idx is outside the display list for catalog.
func (l List[T]) FromIndex(catalog []T, idx int) (Selection, bool) {
	if idx < 0 || idx >= l.Len(catalog) {
		return Selection{}, false
	}
	if idx < len(l.sentinels) {
		return Selection{kind: l.sentinels[idx].Kind}, true
	}
	return Item(idx - len(l.sentinels)), true
}

// RestoreIndex is Restore followed by Index.
func (l List[T]) RestoreIndex(catalog []T, key string, skip bool) int {
	return l.Index(l.Restore(catalog, key, skip))
}

// PersistIndex is Persist for a raw display index. The UI never offers an
// index outside the display list, so one here panics.
func (l List[T]) PersistIndex(catalog []T, idx int) Persisted {
	s, ok := l.FromIndex(catalog, idx)
	if !ok {
		panic(fmt.Sprintf("selection: index %d out of range [0,%d)", idx, l.Len(catalog)))
	}
	return l.Persist(catalog, s)
}

func (l List[T]) has(k Kind) bool {
	for _, s := range l.sentinels {
		if s.Kind == k {
			return true
		}
	}
	return false
}
