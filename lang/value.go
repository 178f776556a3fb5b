package lang

// ValueKind discriminates the three structural shapes of a value.
type ValueKind int

const (
	KindAtom ValueKind = iota
	KindList
	KindMap
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// AtomForm records which surface syntax produced an atom. It only
// affects serialization; two atoms with equal text compare equal
// regardless of form.
type AtomForm int

const (
	FormBare AtomForm = iota
	FormQuoted
	FormGuarded
)

// String returns the lowercase name of the form.
func (f AtomForm) String() string {
	switch f {
	case FormBare:
		return "bare"
	case FormQuoted:
		return "quoted"
	case FormGuarded:
		return "guarded"
	default:
		return "unknown"
	}
}

// Entry is one key/value pair of a map. Duplicate keys are preserved
// in source order.
type Entry struct {
	Key   *Value
	Value *Value
}

// Value is a node of the parsed tree. Exactly one of the payload
// fields is meaningful for a given Kind: Text and Form for atoms,
// Items for lists, Entries for maps.
type Value struct {
	Kind    ValueKind
	Text    string
	Form    AtomForm
	Items   []*Value
	Entries []Entry
	Pos     Position
}

// Bare returns a bare atom with the given text.
func Bare(text string) *Value {
	return &Value{Kind: KindAtom, Text: text, Form: FormBare}
}

// Quoted returns a quoted atom with the given text.
func Quoted(text string) *Value {
	return &Value{Kind: KindAtom, Text: text, Form: FormQuoted}
}

// Guarded returns a guarded atom with the given text.
func Guarded(text string) *Value {
	return &Value{Kind: KindAtom, Text: text, Form: FormGuarded}
}

// NewList returns a list of the given items.
func NewList(items ...*Value) *Value {
	return &Value{Kind: KindList, Items: items}
}

// NewMap returns a map of the given entries.
func NewMap(entries ...Entry) *Value {
	return &Value{Kind: KindMap, Entries: entries}
}

// IsAtom reports whether v is a non-nil atom.
func (v *Value) IsAtom() bool { return v != nil && v.Kind == KindAtom }

// IsList reports whether v is a non-nil list.
func (v *Value) IsList() bool { return v != nil && v.Kind == KindList }

// IsMap reports whether v is a non-nil map.
func (v *Value) IsMap() bool { return v != nil && v.Kind == KindMap }

// IsEmpty reports whether v is an empty list or an empty map.
func (v *Value) IsEmpty() bool {
	switch {
	case v == nil:
		return true
	case v.Kind == KindList:
		return len(v.Items) == 0
	case v.Kind == KindMap:
		return len(v.Entries) == 0
	default:
		return false
	}
}

// First returns the first item of a list, or nil when v is not a list
// or is empty.
func (v *Value) First() *Value {
	if !v.IsList() || len(v.Items) == 0 {
		return nil
	}

	return v.Items[0]
}

// Tail returns a list of every item after the first. The result shares
// its backing array with v. An empty or non-list v yields an empty
// list.
func (v *Value) Tail() *Value {
	if !v.IsList() || len(v.Items) == 0 {
		return NewList()
	}

	return NewList(v.Items[1:]...)
}

// Get returns the value of the first entry whose key is structurally
// equal to key, and whether such an entry exists.
func (v *Value) Get(key *Value) (*Value, bool) {
	if !v.IsMap() {
		return nil, false
	}

	for _, e := range v.Entries {
		if e.Key.Equal(key) {
			return e.Value, true
		}
	}

	return nil, false
}

// GetAtom is Get with an atom key of the given text.
func (v *Value) GetAtom(key string) (*Value, bool) {
	return v.Get(Bare(key))
}

// Equal reports deep structural equality. Atoms compare by text alone,
// ignoring form and position; lists and maps compare element-wise in
// order. Two nil values are equal.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}

	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindAtom:
		return v.Text == other.Text

	case KindList:
		if len(v.Items) != len(other.Items) {
			return false
		}

		for i, item := range v.Items {
			if !item.Equal(other.Items[i]) {
				return false
			}
		}

		return true

	case KindMap:
		if len(v.Entries) != len(other.Entries) {
			return false
		}

		for i, e := range v.Entries {
			o := other.Entries[i]
			if !e.Key.Equal(o.Key) || !e.Value.Equal(o.Value) {
				return false
			}
		}

		return true

	default:
		return false
	}
}
