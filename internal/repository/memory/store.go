// Package memory implements the catalog repositories in process memory.
//
// It mirrors the PostgreSQL schema: unique keys, foreign keys, cascading
// deletes and the positive price check are all enforced, and WithinTx gives
// all-or-nothing semantics by working on a copy of the tables. It backs the
// API when DB_DRIVER=memory and serves as the store in handler and service tests.
package memory

import (
	"context"
	"maps"
	"strconv"
	"sync"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

type tables struct {
	categories map[uuid.UUID]domain.Category
	attributes map[uuid.UUID]domain.Attribute
	products   map[uuid.UUID]domain.Product
	links      map[uuid.UUID]domain.ProductAttribute
}

func newTables() *tables {
	return &tables{
		categories: make(map[uuid.UUID]domain.Category),
		attributes: make(map[uuid.UUID]domain.Attribute),
		products:   make(map[uuid.UUID]domain.Product),
		links:      make(map[uuid.UUID]domain.ProductAttribute),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		categories: maps.Clone(t.categories),
		attributes: maps.Clone(t.attributes),
		products:   maps.Clone(t.products),
		links:      maps.Clone(t.links),
	}
}

// Store is an in-memory catalog database
type Store struct {
	mu   sync.Mutex
	data *tables
}

// New creates an empty store
func New() *Store {
	return &Store{data: newTables()}
}

// Repositories returns repositories operating directly on the store
func (s *Store) Repositories() repository.Repositories {
	return bind(&conn{lock: &s.mu, data: func() *tables { return s.data }})
}

// WithinTx runs fn against a private copy of the tables and publishes the
// copy only if fn succeeds. Transactions are serialized.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.data.clone()
	if err := fn(bind(&conn{lock: &sync.Mutex{}, data: func() *tables { return working }})); err != nil {
		return err
	}

	s.data = working
	return nil
}

// Health reports the store size in the same shape as the database health check
func (s *Store) Health() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]string{
		"status":     "up",
		"driver":     "memory",
		"categories": strconv.Itoa(len(s.data.categories)),
		"attributes": strconv.Itoa(len(s.data.attributes)),
		"products":   strconv.Itoa(len(s.data.products)),
	}
}

// Close drops every record
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = newTables()
	return nil
}

// conn is what every repository shares: the tables it sees and the lock guarding them.
type conn struct {
	lock sync.Locker
	data func() *tables
}

func (c *conn) with(fn func(t *tables) error) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return fn(c.data())
}

func bind(c *conn) repository.Repositories {
	return repository.Repositories{
		Categories:        &categoryRepository{c},
		Attributes:        &attributeRepository{c},
		Products:          &productRepository{c},
		ProductAttributes: &productAttributeRepository{c},
	}
}

// cascadeProduct removes the links of a deleted product
func (t *tables) cascadeProduct(productID uuid.UUID) {
	for id, l := range t.links {
		if l.ProductID == productID {
			delete(t.links, id)
		}
	}
}
