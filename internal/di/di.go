// Package di provides a minimal service container with typed tokens.
// Services are registered lazily and constructed on first Get.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under key, constructing it if needed.
	// Panics if the key is unknown.
	Get(key string) any
}

// Container is the full registration + lookup interface.
type Container interface {
	ServiceRegistry

	// Register stores an already-constructed service under key.
	Register(key string, svc any)

	// RegisterFactory stores a lazy constructor under key.
	RegisterFactory(key string, factory func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	services  map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services:  make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(key string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[key] = svc
}

func (c *container) RegisterFactory(key string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[key] = factory
}

func (c *container) Get(key string) any {
	c.mu.Lock()
	if svc, ok := c.services[key]; ok {
		c.mu.Unlock()
		return svc
	}
	factory, ok := c.factories[key]
	c.mu.Unlock()

	if !ok {
		panic(fmt.Sprintf("di: no service registered for %q", key))
	}

	// Construct outside the lock so factories can resolve dependencies.
	svc := factory(c)

	c.mu.Lock()
	c.services[key] = svc
	c.mu.Unlock()

	return svc
}

// Token is a typed key for a service of type T.
type Token[T any] struct {
	key string
}

// NewToken creates a typed token with a unique key.
func NewToken[T any](key string) Token[T] {
	return Token[T]{key: key}
}

// String returns the token's key.
func (t Token[T]) String() string {
	return t.key
}

// RegisterToken registers a typed factory for the token.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.key, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves a typed service from the registry.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	svc, ok := sr.Get(token.key).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type", token.key))
	}
	return svc
}
