// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
)

// DocumentBuilder provides a fluent interface for building small catalog
// documents inline in tests
type DocumentBuilder struct {
	doc *ancestry.Document
}

// NewDocumentBuilder creates an empty document
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{doc: &ancestry.Document{}}
}

// WithPointBudget sets the catalog budget
func (b *DocumentBuilder) WithPointBudget(budget int) *DocumentBuilder {
	b.doc.PointBudget = budget
	return b
}

// WithType appends a trait type with no categories
func (b *DocumentBuilder) WithType(id string) *DocumentBuilder {
	b.doc.TraitTypes = append(b.doc.TraitTypes, ancestry.TraitType{ID: id, Name: id})
	return b
}

// WithCategory appends a category to the most recently added type, adding a
// "core" type if none exists yet
func (b *DocumentBuilder) WithCategory(cat ancestry.Category) *DocumentBuilder {
	if len(b.doc.TraitTypes) == 0 {
		b.WithType(ancestry.TypeCore)
	}
	last := &b.doc.TraitTypes[len(b.doc.TraitTypes)-1]
	if cat.Name == "" {
		cat.Name = cat.ID
	}
	last.Categories = append(last.Categories, cat)
	return b
}

// WithPreset appends a preset
func (b *DocumentBuilder) WithPreset(p ancestry.Preset) *DocumentBuilder {
	b.doc.Presets = append(b.doc.Presets, p)
	return b
}

// Build returns the document
func (b *DocumentBuilder) Build() *ancestry.Document {
	return b.doc
}

// Trait is a shorthand for a priced trait
func Trait(id string, points int) ancestry.Trait {
	return ancestry.Trait{ID: id, Name: id, Points: &points}
}
