package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
)

// Entity is any record that attachments can be pinned to. EntityType returns
// the "app_label.model_name" discriminant stored on the attachment row.
type Entity interface {
	EntityType() string
	EntityID() uint
}

// Resolver loads an entity of one registered kind by primary key.
type Resolver func(db *gorm.DB, pk uint) (Entity, error)

// Registry maps entity type discriminants to lookup functions. It replaces
// reflection-based model resolution with explicit dispatch.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewRegistry returns an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: map[string]Resolver{}}
}

// Register binds an (app label, model name) pair to a resolver. Names are
// case-insensitive.
func (r *Registry) Register(appLabel, modelName string, resolve Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[entityKey(appLabel, modelName)] = resolve
}

// Resolve looks up the entity identified by (app label, model name, pk).
// An unregistered model yields ErrUnknownEntityType; a registered model with
// no matching row yields gorm.ErrRecordNotFound.
func (r *Registry) Resolve(db *gorm.DB, appLabel, modelName string, pk uint) (Entity, error) {
	r.mu.RLock()
	resolve, ok := r.resolvers[entityKey(appLabel, modelName)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownEntityType, appLabel, modelName)
	}
	return resolve(db, pk)
}

// ErrUnknownEntityType marks a model name that no resolver was registered for.
var ErrUnknownEntityType = errors.New("unknown entity type")

func entityKey(appLabel, modelName string) string {
	return strings.ToLower(appLabel) + "." + strings.ToLower(modelName)
}

// DefaultRegistry registers the content-object kinds this service ships with.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("forum", "post", func(db *gorm.DB, pk uint) (Entity, error) {
		var post Post
		if err := db.First(&post, pk).Error; err != nil {
			return nil, err
		}
		return &post, nil
	})
	r.Register("forum", "comment", func(db *gorm.DB, pk uint) (Entity, error) {
		var comment Comment
		if err := db.First(&comment, pk).Error; err != nil {
			return nil, err
		}
		return &comment, nil
	})
	return r
}
