package items_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-composer/internal/items"
	"github.com/rezonia/invoice-composer/internal/model"
)

func newStore(t *testing.T) *items.Store {
	t.Helper()
	node, err := items.NewNode(1)
	require.NoError(t, err)
	return items.NewStore(node)
}

func descriptions(s *items.Store) []string {
	var out []string
	for _, item := range s.Items() {
		out = append(out, item.Description)
	}
	return out
}

func seed(t *testing.T, s *items.Store, names ...string) []items.ID {
	t.Helper()
	ids := make([]items.ID, 0, len(names))
	for _, name := range names {
		ids = append(ids, s.Append(model.LineItem{Description: name}))
	}
	return ids
}

func TestAdd_AppendsBlankItem(t *testing.T) {
	s := newStore(t)

	id := s.Add()
	require.Equal(t, 1, s.Len())

	item, ok := s.Get(id)
	require.True(t, ok)
	assert.True(t, item.IsBlank())
	assert.NotEqual(t, items.End, id)
}

func TestAdd_IdentitiesAreUnique(t *testing.T) {
	s := newStore(t)

	seen := make(map[items.ID]bool)
	for i := 0; i < 500; i++ {
		id := s.Add()
		require.False(t, seen[id], "identity %d reused", id)
		seen[id] = true
	}
}

func TestRemove(t *testing.T) {
	s := newStore(t)
	ids := seed(t, s, "a", "b", "c")

	assert.True(t, s.Remove(ids[1]))
	assert.Equal(t, []string{"a", "c"}, descriptions(s))

	// Absent id is a no-op
	assert.False(t, s.Remove(ids[1]))
	assert.Equal(t, []string{"a", "c"}, descriptions(s))
}

func TestRemove_IdentityNotReused(t *testing.T) {
	s := newStore(t)
	first := s.Add()
	require.True(t, s.Remove(first))

	second := s.Add()
	assert.NotEqual(t, first, second)

	_, ok := s.Get(first)
	assert.False(t, ok)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name     string
		move     int
		before   int // -1 means End
		expected []string
		moved    bool
	}{
		{"last to front", 3, 0, []string{"d", "a", "b", "c"}, true},
		{"front to end", 0, -1, []string{"b", "c", "d", "a"}, true},
		{"middle before middle", 1, 3, []string{"a", "c", "b", "d"}, true},
		{"before itself", 2, 2, []string{"a", "b", "c", "d"}, false},
		{"already before target", 1, 2, []string{"a", "b", "c", "d"}, true},
		{"last to end", 3, -1, []string{"a", "b", "c", "d"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			ids := seed(t, s, "a", "b", "c", "d")

			before := items.End
			if tt.before >= 0 {
				before = ids[tt.before]
			}

			assert.Equal(t, tt.moved, s.Reorder(ids[tt.move], before))
			assert.Equal(t, tt.expected, descriptions(s))
			assert.Equal(t, 4, s.Len())
		})
	}
}

func TestReorder_UnknownIDs(t *testing.T) {
	s := newStore(t)
	ids := seed(t, s, "a", "b")

	other := newStore(t)
	foreign := other.Add()
	other.Add()

	assert.False(t, s.Reorder(foreign, items.End))
	assert.False(t, s.Reorder(ids[0], foreign+1))
	assert.Equal(t, []string{"a", "b"}, descriptions(s))
}

func TestSet(t *testing.T) {
	s := newStore(t)
	id := s.Add()

	ok := s.Set(id, model.LineItem{Description: "Consulting", Quantity: "3", UnitPrice: "150"})
	require.True(t, ok)

	item, _ := s.Get(id)
	assert.Equal(t, "Consulting", item.Description)
	assert.Equal(t, "3", item.Quantity)

	assert.False(t, s.Set(id+12345, model.LineItem{}))
}

func TestList_PreservesOrderAndIdentity(t *testing.T) {
	s := newStore(t)
	ids := seed(t, s, "a", "b", "c")

	entries := s.List()
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, ids[i], entry.ID)
	}
	assert.Equal(t, ids, s.IDs())
}

func TestClear(t *testing.T) {
	s := newStore(t)
	ids := seed(t, s, "a", "b")

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Items())

	next := s.Add()
	assert.NotContains(t, ids, next)
}

func TestRemoveOnlyItemThenAdd(t *testing.T) {
	s := newStore(t)
	only := s.Append(model.LineItem{Description: "x", Quantity: "1", UnitPrice: "2"})

	require.True(t, s.Remove(only))
	s.Add()

	require.Equal(t, 1, s.Len())
	assert.True(t, s.Items()[0].IsBlank())
}
