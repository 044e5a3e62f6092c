// Package tags manages tag definitions and the product to tag assignment map.
package tags

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/listforge/listforge/internal/shared"
)

const kvKey = "listforge:tags"

// Tag is a named, coloured label assignable to products.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ErrTagNotFound indicates a missing tag id.
var ErrTagNotFound = errors.New("tags: tag not found")

// document is the persisted shape: tag definitions plus assignments.
type document struct {
	Tags        []Tag               `json:"tags"`
	ProductTags map[string][]string `json:"product_tags"`
}

func (d document) clone() document {
	out := document{
		Tags:        make([]Tag, len(d.Tags)),
		ProductTags: make(map[string][]string, len(d.ProductTags)),
	}
	copy(out.Tags, d.Tags)
	for productID, ids := range d.ProductTags {
		out.ProductTags[productID] = append([]string(nil), ids...)
	}
	return out
}

// Store owns tags and their product assignments. Every mutation persists the
// whole document synchronously and restores the previous document when the
// write fails, so reads never observe an unpersisted change. Deleting a tag
// cascades its removal from every product's assignment set.
type Store struct {
	mu     sync.Mutex
	kv     *shared.KV
	doc    document
	loaded bool
}

// NewStore constructs the tag store backed by the shared KV.
func NewStore(kv *shared.KV) *Store {
	return &Store{kv: kv, doc: document{ProductTags: make(map[string][]string)}}
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	var doc document
	found, err := s.kv.Load(ctx, kvKey, &doc)
	if err == nil {
		if found {
			s.doc = doc
		}
		s.loaded = true
	}
	// A load error leaves loaded unset so the next call retries.
	if s.doc.ProductTags == nil {
		s.doc.ProductTags = make(map[string][]string)
	}
}

func (s *Store) persist(ctx context.Context) error {
	return s.kv.Save(ctx, kvKey, s.doc)
}

// List returns every tag definition.
func (s *Store) List(ctx context.Context) []Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	out := make([]Tag, len(s.doc.Tags))
	copy(out, s.doc.Tags)
	return out
}

// ProductTags returns the tag ids assigned to a product.
func (s *Store) ProductTags(ctx context.Context, productID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	ids := s.doc.ProductTags[productID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// AddTag upserts a tag definition by id.
func (s *Store) AddTag(ctx context.Context, tag Tag) (Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}
	prev := s.doc.clone()
	replaced := false
	for i, existing := range s.doc.Tags {
		if existing.ID == tag.ID {
			s.doc.Tags[i] = tag
			replaced = true
			break
		}
	}
	if !replaced {
		s.doc.Tags = append(s.doc.Tags, tag)
	}
	if err := s.persist(ctx); err != nil {
		s.doc = prev
		return Tag{}, err
	}
	return tag, nil
}

// DeleteTag removes the tag and cascades removal from every product.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	prev := s.doc.clone()
	found := false
	for i, tag := range s.doc.Tags {
		if tag.ID == tagID {
			s.doc.Tags = append(s.doc.Tags[:i], s.doc.Tags[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return ErrTagNotFound
	}
	for productID, ids := range s.doc.ProductTags {
		s.doc.ProductTags[productID] = removeID(ids, tagID)
	}
	if err := s.persist(ctx); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// ToggleProductTag adds the tag to the product if absent, removes it if
// present.
func (s *Store) ToggleProductTag(ctx context.Context, productID, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	prev := s.doc.clone()
	ids := s.doc.ProductTags[productID]
	if containsID(ids, tagID) {
		s.doc.ProductTags[productID] = removeID(ids, tagID)
	} else {
		s.doc.ProductTags[productID] = append(ids, tagID)
	}
	if err := s.persist(ctx); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// BulkAddTag assigns the tag to every listed product. Products already
// carrying the tag are untouched.
func (s *Store) BulkAddTag(ctx context.Context, productIDs []string, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	prev := s.doc.clone()
	for _, productID := range productIDs {
		ids := s.doc.ProductTags[productID]
		if !containsID(ids, tagID) {
			s.doc.ProductTags[productID] = append(ids, tagID)
		}
	}
	if err := s.persist(ctx); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// BulkRemoveTag unassigns the tag from every listed product.
func (s *Store) BulkRemoveTag(ctx context.Context, productIDs []string, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	prev := s.doc.clone()
	for _, productID := range productIDs {
		s.doc.ProductTags[productID] = removeID(s.doc.ProductTags[productID], tagID)
	}
	if err := s.persist(ctx); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// RemoveProducts drops the assignment entries for deleted products.
func (s *Store) RemoveProducts(ctx context.Context, productIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	prev := s.doc.clone()
	for _, productID := range productIDs {
		delete(s.doc.ProductTags, productID)
	}
	if err := s.persist(ctx); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// ClearTagFromAllProducts unassigns the tag everywhere but keeps the
// definition.
func (s *Store) ClearTagFromAllProducts(ctx context.Context, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	prev := s.doc.clone()
	for productID, ids := range s.doc.ProductTags {
		s.doc.ProductTags[productID] = removeID(ids, tagID)
	}
	if err := s.persist(ctx); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
