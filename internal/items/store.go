// Package items holds the ordered, mutable collection of invoice line items.
package items

import (
	"fmt"
	"slices"

	"github.com/bwmarrin/snowflake"

	"github.com/rezonia/invoice-composer/internal/model"
)

// ID identifies a line item for its whole lifetime. IDs are never reused.
type ID = snowflake.ID

// End is the reorder target meaning "after the last item"
const End ID = 0

// Entry pairs an item with its identity
type Entry struct {
	ID   ID             `json:"id"`
	Item model.LineItem `json:"item"`
}

// Store is an ordered collection of line items. It performs no validation.
// Store is not safe for concurrent use; callers serialize access.
type Store struct {
	node  *snowflake.Node
	order []ID
	items map[ID]model.LineItem
}

// NewStore creates an empty store generating identities from node
func NewStore(node *snowflake.Node) *Store {
	return &Store{
		node:  node,
		items: make(map[ID]model.LineItem),
	}
}

// NewNode creates a snowflake node for item identities
func NewNode(nodeID int64) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create item id node: %w", err)
	}
	return node, nil
}

// Add appends a blank item and returns its identity
func (s *Store) Add() ID {
	return s.Append(model.LineItem{})
}

// Append appends item and returns its identity
func (s *Store) Append(item model.LineItem) ID {
	id := s.node.Generate()
	s.order = append(s.order, id)
	s.items[id] = item
	return id
}

// Remove deletes the item. It reports whether the item existed.
func (s *Store) Remove(id ID) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v ID) bool { return v == id })
	return true
}

// Reorder moves id to immediately before before, or to the end when before
// is End. It reports whether anything was moved; unknown ids are a no-op.
func (s *Store) Reorder(id, before ID) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	if before == id {
		return false
	}
	if before != End {
		if _, ok := s.items[before]; !ok {
			return false
		}
	}

	order := slices.DeleteFunc(slices.Clone(s.order), func(v ID) bool { return v == id })
	if before == End {
		order = append(order, id)
	} else {
		at := slices.Index(order, before)
		order = slices.Insert(order, at, id)
	}
	s.order = order
	return true
}

// Get returns the item stored under id
func (s *Store) Get(id ID) (model.LineItem, bool) {
	item, ok := s.items[id]
	return item, ok
}

// Set replaces the fields of an existing item
func (s *Store) Set(id ID, item model.LineItem) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	s.items[id] = item
	return true
}

// List returns the items in display order
func (s *Store) List() []Entry {
	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, Entry{ID: id, Item: s.items[id]})
	}
	return entries
}

// Items returns the item values in display order
func (s *Store) Items() []model.LineItem {
	out := make([]model.LineItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// IDs returns the identities in display order
func (s *Store) IDs() []ID {
	return slices.Clone(s.order)
}

// Len returns the number of items
func (s *Store) Len() int {
	return len(s.order)
}

// Clear removes every item. Identities issued before are not reused.
func (s *Store) Clear() {
	s.order = nil
	clear(s.items)
}
