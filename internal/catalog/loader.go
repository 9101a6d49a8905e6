package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

// Format is a catalog serialization
type Format string

// Supported catalog formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the decoder from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.InvalidArgumentf("unsupported catalog extension %q", filepath.Ext(path)).
			WithMeta("path", path)
	}
}

// Parse decodes a single catalog document. It does not validate the nesting;
// Build does.
func Parse(data []byte, format Format) (*ancestry.Document, error) {
	var doc ancestry.Document

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode JSON catalog")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode YAML catalog")
		}
	default:
		return nil, errors.InvalidArgumentf("unsupported catalog format %q", format)
	}

	return &doc, nil
}

// ReadFile reads and decodes one catalog document from disk
func ReadFile(path string) (*ancestry.Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.CodeNotFound, "catalog file not found").
				WithMeta("path", path)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read catalog").
			WithMeta("path", path)
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path).WithMeta("path", path)
	}
	return doc, nil
}

// LoadFiles reads every path concurrently and builds one catalog from the
// documents in the order given. Any failure fails the whole load.
func LoadFiles(ctx context.Context, paths ...string) (*Catalog, error) {
	if len(paths) == 0 {
		return nil, errors.InvalidArgument("at least one catalog path is required")
	}

	docs := make([]*ancestry.Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.WrapWithCode(err, errors.CodeCanceled, "catalog load canceled")
			}
			doc, err := ReadFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Build(docs...)
}

// Build normalizes one or more documents into a Catalog in a single pass.
// Trait types sharing an id are merged; category and trait ids must be unique
// across all documents. The input documents are never modified.
func Build(docs ...*ancestry.Document) (*Catalog, error) {
	b := &builder{
		cat: &Catalog{
			traits:     make(map[string]*ancestry.Trait),
			categories: make(map[string]*CategoryInfo),
		},
		presetIDs: make(map[string]bool),
	}

	for i, doc := range docs {
		if err := b.addDocument(i, doc); err != nil {
			return nil, err
		}
	}

	if len(b.cat.types) == 0 {
		return nil, errors.DataLoss("catalog has no trait types")
	}

	for _, typ := range b.cat.types {
		if typ.Name == "" {
			typ.Name = typ.ID
		}
	}

	return b.cat, nil
}

type builder struct {
	cat       *Catalog
	presetIDs map[string]bool
}

func (b *builder) addDocument(index int, doc *ancestry.Document) error {
	if doc == nil || len(doc.TraitTypes) == 0 {
		return errors.DataLoss("catalog document has no trait types").WithMeta("document", index)
	}

	if doc.PointBudget != 0 && b.cat.pointBudget == 0 {
		b.cat.pointBudget = doc.PointBudget
	}

	for ti := range doc.TraitTypes {
		raw := &doc.TraitTypes[ti]
		if raw.ID == "" {
			return errors.DataLossf("trait type %d has no id", ti).WithMeta("document", index)
		}

		typ := b.cat.Type(raw.ID)
		if typ == nil {
			typ = &TypeInfo{ID: raw.ID}
			b.cat.types = append(b.cat.types, typ)
		}
		if raw.Name != "" {
			typ.Name = raw.Name
		}
		if raw.Description != "" {
			typ.Description = raw.Description
		}
		if raw.MaxCategories > 0 {
			typ.MaxCategories = raw.MaxCategories
		}
		typ.Recommended = typ.Recommended || raw.Recommended

		for ci := range raw.Categories {
			if err := b.addCategory(typ, &raw.Categories[ci]); err != nil {
				return errors.Wrapf(err, "invalid category in type %s", raw.ID).WithMeta("document", index)
			}
		}
	}

	for pi := range doc.Presets {
		p := doc.Presets[pi]
		if p.ID == "" {
			return errors.DataLossf("preset %d has no id", pi).WithMeta("document", index)
		}
		if b.presetIDs[p.ID] {
			return errors.DataLossf("duplicate preset id %s", p.ID).WithMeta("document", index)
		}
		b.presetIDs[p.ID] = true
		b.cat.presets = append(b.cat.presets, clonePreset(p))
	}

	return nil
}

func (b *builder) addCategory(typ *TypeInfo, raw *ancestry.Category) error {
	if raw.ID == "" {
		return errors.DataLossf("category %q has no id", raw.Name)
	}
	if _, dup := b.cat.categories[raw.ID]; dup {
		return errors.DataLossf("duplicate category id %s", raw.ID)
	}
	if raw.Required && len(raw.Traits) == 0 {
		return errors.DataLossf("required category %s has no traits", raw.ID)
	}

	cat := &CategoryInfo{
		ID:            raw.ID,
		Name:          raw.Name,
		Description:   raw.Description,
		Label:         raw.Label,
		Type:          typ.ID,
		Required:      raw.Required,
		RequiredTrait: raw.RequiredTrait,
		TraitIDs:      make([]string, 0, len(raw.Traits)),
	}
	if cat.Name == "" {
		cat.Name = raw.ID
	}

	defaultID := ""
	for i := range raw.Traits {
		t := cloneTrait(raw.Traits[i])
		if t.ID == "" {
			return errors.DataLossf("trait %d in category %s has no id", i, raw.ID)
		}
		if _, dup := b.cat.traits[t.ID]; dup {
			return errors.DataLossf("duplicate trait id %s", t.ID).WithMeta("category_id", raw.ID)
		}

		t.CategoryID = cat.ID
		t.CategoryName = cat.Name
		t.Type = typ.ID
		t.Label = cat.Label

		b.cat.traits[t.ID] = t
		b.cat.traitOrder = append(b.cat.traitOrder, t.ID)
		cat.TraitIDs = append(cat.TraitIDs, t.ID)

		if t.Default {
			b.cat.defaults = append(b.cat.defaults, t)
			if defaultID == "" {
				defaultID = t.ID
			}
		}
	}

	if cat.RequiredTrait != "" && !containsID(cat.TraitIDs, cat.RequiredTrait) {
		return errors.DataLossf("required trait %s is not a member of category %s", cat.RequiredTrait, cat.ID)
	}

	b.cat.categories[cat.ID] = cat
	typ.CategoryIDs = append(typ.CategoryIDs, cat.ID)

	if cat.Required {
		b.cat.required = append(b.cat.required, RequiredCategory{
			CategoryID:     cat.ID,
			CategoryName:   cat.Name,
			TraitIDs:       cat.TraitIDs,
			DefaultTraitID: defaultID,
		})
	}
	if cat.RequiredTrait != "" {
		siblings := make([]string, 0, len(cat.TraitIDs)-1)
		for _, id := range cat.TraitIDs {
			if id != cat.RequiredTrait {
				siblings = append(siblings, id)
			}
		}
		b.cat.reqTraits = append(b.cat.reqTraits, RequiredTrait{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			TraitID:      cat.RequiredTrait,
			SiblingIDs:   siblings,
		})
	}

	return nil
}

func cloneTrait(src ancestry.Trait) *ancestry.Trait {
	t := src
	if src.Points != nil {
		p := *src.Points
		t.Points = &p
	}
	t.Requires = append([]string(nil), src.Requires...)
	t.Excludes = append([]string(nil), src.Excludes...)
	t.Options = append([]ancestry.Option(nil), src.Options...)
	return &t
}

func clonePreset(src ancestry.Preset) *ancestry.Preset {
	p := src
	p.Traits = append([]ancestry.TraitRef(nil), src.Traits...)
	p.Archetypes = make([]ancestry.Archetype, len(src.Archetypes))
	for i, a := range src.Archetypes {
		a.Traits = append([]ancestry.TraitRef(nil), a.Traits...)
		p.Archetypes[i] = a
	}
	return &p
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
