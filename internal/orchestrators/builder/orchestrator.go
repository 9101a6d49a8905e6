// Package builder orchestrates persisted ancestry build sessions: it loads a
// build, runs selection commands against the catalog rules, and stores the
// result.
package builder

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/ancestry-builder/internal/catalog"
	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/export"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/clock"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/idgen"
	buildrepo "github.com/KirkDiggler/ancestry-builder/internal/repositories/build"
)

const (
	// DefaultSessionTTL is how long an untouched build survives
	DefaultSessionTTL = 24 * time.Hour

	suggestionLimit = 3
)

// Service defines build session operations
type Service interface {
	// Lifecycle
	StartBuild(ctx context.Context, input *StartBuildInput) (*StartBuildOutput, error)
	GetBuild(ctx context.Context, input *GetBuildInput) (*GetBuildOutput, error)
	ListBuilds(ctx context.Context, input *ListBuildsInput) (*ListBuildsOutput, error)
	DeleteBuild(ctx context.Context, input *DeleteBuildInput) (*DeleteBuildOutput, error)

	// Selection
	ApplyCommand(ctx context.Context, input *ApplyCommandInput) (*ApplyCommandOutput, error)
	LoadPreset(ctx context.Context, input *LoadPresetInput) (*LoadPresetOutput, error)
	CheckTrait(ctx context.Context, input *CheckTraitInput) (*CheckTraitOutput, error)

	// Output
	ExportBuild(ctx context.Context, input *ExportBuildInput) (*ExportBuildOutput, error)
}

// Config holds the dependencies for the builder orchestrator
type Config struct {
	Catalog     *catalog.Catalog
	Repository  buildrepo.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
	// Limits overrides the catalog's advisory limits
	Limits *selection.Limits
	// SessionTTL defaults to DefaultSessionTTL
	SessionTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.SessionTTL < 0 {
		vb.Field("SessionTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	catalog *catalog.Catalog
	rules   *selection.Rules
	repo    buildrepo.Repository
	idGen   idgen.Generator
	clock   clock.Clock
	ttl     time.Duration
}

// NewOrchestrator creates a new builder orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	rules, err := selection.NewRules(&selection.RulesConfig{
		Catalog: cfg.Catalog,
		Limits:  cfg.Limits,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create selection rules")
	}

	o := &orchestrator{
		catalog: cfg.Catalog,
		rules:   rules,
		repo:    cfg.Repository,
		idGen:   cfg.IDGenerator,
		clock:   cfg.Clock,
		ttl:     cfg.SessionTTL,
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.ttl == 0 {
		o.ttl = DefaultSessionTTL
	}
	return o, nil
}

func (o *orchestrator) StartBuild(ctx context.Context, input *StartBuildInput) (*StartBuildOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("ownerID", input.OwnerID, vb)
	if input.ArchetypeID != "" && input.PresetID == "" {
		vb.Field("archetypeID", "requires presetID")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	engine := selection.New(o.rules)
	var dropped []string
	switch {
	case input.PresetID != "":
		resolved, err := o.catalog.ResolvePreset(input.PresetID, input.ArchetypeID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve preset")
		}
		engine.LoadPreset(presetCommand(resolved))
		dropped = resolved.Dropped
	case input.ApplyDefaults:
		engine.SetDefaults(o.catalog.DefaultTraitIDs())
	}

	now := o.clock.Now()
	b := &ancestry.Build{
		ID:          o.idGen.Generate(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now.Unix(),
	}
	o.stamp(b, engine.State(), now)

	if _, err := o.repo.Create(ctx, buildrepo.CreateInput{Build: b}); err != nil {
		return nil, errors.Wrap(err, "failed to create build")
	}

	if len(dropped) > 0 {
		slog.WarnContext(ctx, "preset references unknown traits",
			"build_id", b.ID,
			"preset_id", input.PresetID,
			"dropped", dropped)
	}
	slog.InfoContext(ctx, "build started",
		"build_id", b.ID,
		"owner_id", b.OwnerID,
		"preset_id", b.LoadedPresetID)

	return &StartBuildOutput{
		Build:   b,
		View:    engine.View(),
		Dropped: dropped,
	}, nil
}

func (o *orchestrator) GetBuild(ctx context.Context, input *GetBuildInput) (*GetBuildOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	b, err := o.load(ctx, input.BuildID)
	if err != nil {
		return nil, err
	}

	return &GetBuildOutput{
		Build: b,
		View:  o.rules.View(stateOf(b)),
	}, nil
}

func (o *orchestrator) ListBuilds(ctx context.Context, input *ListBuildsInput) (*ListBuildsOutput, error) {
	if input == nil || input.OwnerID == "" {
		return nil, errors.InvalidArgument("owner ID is required")
	}

	out, err := o.repo.ListByOwner(ctx, buildrepo.ListByOwnerInput{OwnerID: input.OwnerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list builds")
	}

	summaries := make([]BuildSummary, 0, len(out.Builds))
	for _, b := range out.Builds {
		view := o.rules.View(stateOf(b))
		summaries = append(summaries, BuildSummary{
			Build:       b,
			PointsSpent: view.PointsSpent,
			Complete:    view.Complete(),
		})
	}

	return &ListBuildsOutput{Builds: summaries}, nil
}

func (o *orchestrator) DeleteBuild(ctx context.Context, input *DeleteBuildInput) (*DeleteBuildOutput, error) {
	if input == nil || input.BuildID == "" {
		return nil, errors.InvalidArgument("build ID is required")
	}

	if _, err := o.repo.Delete(ctx, buildrepo.DeleteInput{ID: input.BuildID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete build")
	}

	slog.InfoContext(ctx, "build deleted", "build_id", input.BuildID)
	return &DeleteBuildOutput{}, nil
}

func (o *orchestrator) ApplyCommand(ctx context.Context, input *ApplyCommandInput) (*ApplyCommandOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Command == nil {
		return nil, errors.InvalidArgument("command is required")
	}

	b, err := o.load(ctx, input.BuildID)
	if err != nil {
		return nil, err
	}
	if input.IfVersion != nil && *input.IfVersion != b.Version {
		return nil, errors.FailedPreconditionf("build %s is at version %d, not %d", b.ID, b.Version, *input.IfVersion).
			WithMeta("build_id", b.ID).
			WithMeta("version", b.Version)
	}

	engine := selection.Restore(o.rules, stateOf(b))
	before := engine.State()
	out := &ApplyCommandOutput{Build: b}

	if !engine.Apply(input.Command) {
		out.View = engine.View()
		out.Reason, out.Suggestions = o.explain(before, input.Command)
		slog.DebugContext(ctx, "command left build unchanged",
			"build_id", b.ID,
			"command", input.Command.Name(),
			"reason", out.Reason)
		return out, nil
	}

	if err := o.save(ctx, b, engine.State()); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "command applied",
		"build_id", b.ID,
		"command", input.Command.Name(),
		"version", b.Version)

	out.View = engine.View()
	out.Changed = true
	return out, nil
}

func (o *orchestrator) LoadPreset(ctx context.Context, input *LoadPresetInput) (*LoadPresetOutput, error) {
	if input == nil || input.PresetID == "" {
		return nil, errors.InvalidArgument("preset ID is required")
	}

	resolved, err := o.catalog.ResolvePreset(input.PresetID, input.ArchetypeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve preset")
	}

	applied, err := o.ApplyCommand(ctx, &ApplyCommandInput{
		BuildID: input.BuildID,
		Command: presetCommand(resolved),
	})
	if err != nil {
		return nil, err
	}

	return &LoadPresetOutput{
		Build:   applied.Build,
		View:    applied.View,
		Dropped: resolved.Dropped,
	}, nil
}

func (o *orchestrator) CheckTrait(ctx context.Context, input *CheckTraitInput) (*CheckTraitOutput, error) {
	if input == nil || input.TraitID == "" {
		return nil, errors.InvalidArgument("trait ID is required")
	}

	b, err := o.load(ctx, input.BuildID)
	if err != nil {
		return nil, err
	}

	state := stateOf(b)
	out := &CheckTraitOutput{
		Trait:       o.catalog.Trait(input.TraitID),
		Selected:    state.IsSelected(input.TraitID),
		CanSelect:   o.rules.CanSelect(state, input.TraitID),
		CanDeselect: o.rules.CanDeselect(state, input.TraitID),
	}
	if out.Trait == nil {
		out.Suggestions = o.catalog.Suggest(input.TraitID, suggestionLimit)
	}
	return out, nil
}

func (o *orchestrator) ExportBuild(ctx context.Context, input *ExportBuildInput) (*ExportBuildOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	b, err := o.load(ctx, input.BuildID)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = b.Name
	}

	snapshot := export.Build(o.rules.View(stateOf(b)), export.Input{
		Name:        name,
		Description: b.Description,
	}, o.clock)

	return &ExportBuildOutput{Snapshot: snapshot}, nil
}

func (o *orchestrator) load(ctx context.Context, buildID string) (*ancestry.Build, error) {
	if buildID == "" {
		return nil, errors.InvalidArgument("build ID is required")
	}

	out, err := o.repo.Get(ctx, buildrepo.GetInput{ID: buildID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get build")
	}
	return out.Build, nil
}

func (o *orchestrator) save(ctx context.Context, b *ancestry.Build, state selection.State) error {
	o.stamp(b, state, o.clock.Now())
	if _, err := o.repo.Update(ctx, buildrepo.UpdateInput{Build: b}); err != nil {
		return errors.Wrap(err, "failed to update build")
	}
	return nil
}

// stamp copies the selection into the build and pushes its expiry out
func (o *orchestrator) stamp(b *ancestry.Build, state selection.State, now time.Time) {
	b.SelectedTraitIDs = state.SelectedTraitIDs
	b.SelectedOptions = state.SelectedOptions
	b.LoadedPresetID = state.LoadedPresetID
	b.PresetName = state.PresetName
	b.Version = state.Version
	b.UpdatedAt = now.Unix()
	b.ExpiresAt = now.Add(o.ttl).Unix()
}

// explain recovers why a trait command did nothing
func (o *orchestrator) explain(state selection.State, cmd selection.Command) (string, []string) {
	var traitID string
	deselect := false
	switch c := cmd.(type) {
	case selection.SelectTrait:
		traitID = c.TraitID
	case selection.DeselectTrait:
		traitID, deselect = c.TraitID, true
	case selection.ToggleTrait:
		traitID, deselect = c.TraitID, state.IsSelected(c.TraitID)
	case selection.SetOption:
		traitID = c.TraitID
		if o.catalog.HasTrait(traitID) && !state.IsSelected(traitID) {
			return "Trait is not selected", nil
		}
	default:
		return "", nil
	}

	if !o.catalog.HasTrait(traitID) {
		return "Trait not found", o.catalog.Suggest(traitID, suggestionLimit)
	}
	if deselect {
		return o.rules.CanDeselect(state, traitID).Reason, nil
	}
	return o.rules.CanSelect(state, traitID).Reason, nil
}

func stateOf(b *ancestry.Build) selection.State {
	return selection.State{
		SelectedTraitIDs: b.SelectedTraitIDs,
		SelectedOptions:  b.SelectedOptions,
		LoadedPresetID:   b.LoadedPresetID,
		PresetName:       b.PresetName,
		Version:          b.Version,
	}
}

func presetCommand(resolved *catalog.ResolvedPreset) selection.LoadPreset {
	return selection.LoadPreset{
		PresetID:    resolved.ID,
		DisplayName: resolved.DisplayName,
		TraitIDs:    resolved.TraitIDs,
		Options:     resolved.Options,
	}
}
