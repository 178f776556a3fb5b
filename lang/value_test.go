package lang

import "testing"

func TestValue_Predicates(t *testing.T) {
	var nilValue *Value

	if nilValue.IsAtom() || nilValue.IsList() || nilValue.IsMap() {
		t.Error("nil value must satisfy no kind predicate")
	}

	if !nilValue.IsEmpty() {
		t.Error("nil value must be empty")
	}

	if !Bare("a").IsAtom() || !NewList().IsList() || !NewMap().IsMap() {
		t.Error("constructors must satisfy their kind predicate")
	}

	if NewList(Bare("a")).IsEmpty() || !NewList().IsEmpty() {
		t.Error("IsEmpty must reflect list length")
	}

	if Bare("").IsEmpty() {
		t.Error("atoms are never empty values")
	}
}

func TestValue_FirstTail(t *testing.T) {
	list := NewList(Bare("a"), Bare("b"), Bare("c"))

	if got := list.First(); !got.Equal(Bare("a")) {
		t.Errorf("expected a, got %s", got)
	}

	want := NewList(Bare("b"), Bare("c"))
	if got := list.Tail(); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	if got := NewList().First(); got != nil {
		t.Errorf("expected nil first of empty list, got %s", got)
	}

	if got := NewList().Tail(); !got.Equal(NewList()) {
		t.Errorf("expected empty tail, got %s", got)
	}

	if got := Bare("a").Tail(); !got.Equal(NewList()) {
		t.Errorf("expected empty tail of atom, got %s", got)
	}
}

func TestValue_Get(t *testing.T) {
	m := NewMap(
		Entry{Key: Bare("k"), Value: Bare("1")},
		Entry{Key: Bare("k"), Value: Bare("2")},
		Entry{Key: NewList(Bare("a"), Bare("b")), Value: Bare("3")},
	)

	// First structural match wins over later duplicates.
	if got, ok := m.Get(Bare("k")); !ok || !got.Equal(Bare("1")) {
		t.Errorf("expected 1, got %s (ok=%v)", got, ok)
	}

	// Quoted key text matches a bare key structurally.
	if got, ok := m.Get(Quoted("k")); !ok || !got.Equal(Bare("1")) {
		t.Errorf("expected form-insensitive match, got %s (ok=%v)", got, ok)
	}

	// Compound keys compare by deep equality.
	key := NewList(Bare("a"), Bare("b"))
	if got, ok := m.Get(key); !ok || !got.Equal(Bare("3")) {
		t.Errorf("expected 3, got %s (ok=%v)", got, ok)
	}

	if _, ok := m.Get(Bare("missing")); ok {
		t.Error("expected missing key to report false")
	}

	if _, ok := m.GetAtom("k"); !ok {
		t.Error("expected GetAtom to find k")
	}

	if _, ok := NewList().Get(Bare("k")); ok {
		t.Error("expected Get on a list to report false")
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{name: "nil both", a: nil, b: nil, want: true},
		{name: "nil one", a: nil, b: Bare("a"), want: false},
		{name: "atom text", a: Bare("a"), b: Bare("a"), want: true},
		{name: "atom text differs", a: Bare("a"), b: Bare("b"), want: false},
		{name: "form ignored", a: Bare("a"), b: Quoted("a"), want: true},
		{name: "guarded form ignored", a: Guarded("x"), b: Quoted("x"), want: true},
		{name: "kind differs", a: Bare("a"), b: NewList(Bare("a")), want: false},
		{
			name: "lists element-wise",
			a:    NewList(Bare("a"), Bare("b")),
			b:    NewList(Bare("a"), Bare("b")),
			want: true,
		},
		{
			name: "list order matters",
			a:    NewList(Bare("a"), Bare("b")),
			b:    NewList(Bare("b"), Bare("a")),
			want: false,
		},
		{
			name: "list length matters",
			a:    NewList(Bare("a")),
			b:    NewList(Bare("a"), Bare("b")),
			want: false,
		},
		{
			name: "maps entry-wise in order",
			a:    NewMap(Entry{Key: Bare("k"), Value: Bare("v")}),
			b:    NewMap(Entry{Key: Quoted("k"), Value: Quoted("v")}),
			want: true,
		},
		{
			name: "map order matters",
			a: NewMap(
				Entry{Key: Bare("a"), Value: Bare("1")},
				Entry{Key: Bare("b"), Value: Bare("2")},
			),
			b: NewMap(
				Entry{Key: Bare("b"), Value: Bare("2")},
				Entry{Key: Bare("a"), Value: Bare("1")},
			),
			want: false,
		},
		{
			name: "empty list and empty map differ",
			a:    NewList(),
			b:    NewMap(),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v",
					tt.a, tt.b, got, tt.want)
			}

			// Equality is symmetric.
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v",
					tt.b, tt.a, got, tt.want)
			}
		})
	}
}
