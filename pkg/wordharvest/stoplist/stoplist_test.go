package stoplist

import "testing"

func TestManagerIsStop(t *testing.T) {
	m := NewManager([]string{"the", "and", ""})

	if !m.IsStop("the") {
		t.Error("expected 'the' to be a stop word")
	}
	if m.IsStop("The") {
		t.Error("matching should be case-sensitive")
	}
	if m.IsStop("") {
		t.Error("empty string should never be stored")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestManagerAddRemove(t *testing.T) {
	m := NewManager(nil)
	m.Add("foo")
	if !m.IsStop("foo") {
		t.Error("foo should be a stop word after Add")
	}
	m.Remove("foo")
	if m.IsStop("foo") {
		t.Error("foo should not be a stop word after Remove")
	}
}

func TestManagerAllSorted(t *testing.T) {
	m := NewManager([]string{"zebra", "apple", "mango", "apple"})
	got := m.All()
	want := []string{"apple", "mango", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if m.IsStop("anything") {
		t.Error("nil manager should exclude nothing")
	}
	if m.Len() != 0 || m.All() != nil {
		t.Error("nil manager should be empty")
	}
}
