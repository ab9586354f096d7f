// Package ports declares the storage and messaging contracts the use cases
// depend on. Adapters under internal/adapters implement them.
package ports
