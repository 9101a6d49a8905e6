package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/ancestry-builder/internal/engine/selection"
	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	"github.com/KirkDiggler/ancestry-builder/internal/errors"
	"github.com/KirkDiggler/ancestry-builder/internal/export"
	"github.com/KirkDiggler/ancestry-builder/internal/orchestrators/builder"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/clock"
	"github.com/KirkDiggler/ancestry-builder/internal/pkg/idgen"
	"github.com/KirkDiggler/ancestry-builder/internal/redis"
	buildrepo "github.com/KirkDiggler/ancestry-builder/internal/repositories/build"
)

// Session operations accepted by apply --op
const (
	opSelect   = "select"
	opDeselect = "deselect"
	opToggle   = "toggle"
	opOption   = "option"
	opPreset   = "preset"
	opDefaults = "defaults"
	opReset    = "reset"
)

var (
	// Connection flags
	redisURL string
	timeout  time.Duration
	ownerID  string

	// Session flags
	sessionName        string
	sessionDescription string
	sessionPreset      string
	sessionArchetype   string
	sessionNoDefaults  bool

	applyOp        string
	applyTrait     string
	applyOption    string
	applyIfVersion int64

	exportName string
	exportOut  string
)

// sessionCmd groups the Redis backed build session commands
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted build sessions",
	Long:  `Session commands keep builds in Redis so they can be edited over several invocations.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new build session",
	Args:  cobra.NoArgs,
	RunE:  runSessionStart,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <build-id>",
	Short: "Show a build session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionApplyCmd = &cobra.Command{
	Use:   "apply <build-id>",
	Short: "Apply a selection command to a build session",
	Long: `Apply one command to a stored build. Operations:
  select, deselect, toggle   --trait
  option                     --trait --option
  preset                     --preset [--archetype]
  defaults, reset`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionApply,
}

var sessionExportCmd = &cobra.Command{
	Use:   "export <build-id>",
	Short: "Export a build session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionExport,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <build-id>",
	Short: "Delete a build session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List build sessions for the owner",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

func init() {
	sessionCmd.PersistentFlags().StringVar(&redisURL, "redis-url", "", "Redis address or URL (env ANCESTRY_REDIS_URL)")
	sessionCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	sessionCmd.PersistentFlags().StringVar(&ownerID, "owner", defaultOwner(), "Owner of the build sessions")

	sessionStartCmd.Flags().StringVar(&sessionName, "name", "", "Build name")
	sessionStartCmd.Flags().StringVar(&sessionDescription, "description", "", "Build description")
	sessionStartCmd.Flags().StringVar(&sessionPreset, "preset", "", "Preset to start from")
	sessionStartCmd.Flags().StringVar(&sessionArchetype, "archetype", "", "Archetype of the preset")
	sessionStartCmd.Flags().BoolVar(&sessionNoDefaults, "no-defaults", false, "Do not seed catalog default traits")

	sessionApplyCmd.Flags().StringVar(&applyOp, "op", "", "Operation: select, deselect, toggle, option, preset, defaults, reset (required)")
	sessionApplyCmd.Flags().StringVar(&applyTrait, "trait", "", "Trait id")
	sessionApplyCmd.Flags().StringVar(&applyOption, "option", "", "Option id for --op option")
	sessionApplyCmd.Flags().StringVar(&sessionPreset, "preset", "", "Preset id for --op preset")
	sessionApplyCmd.Flags().StringVar(&sessionArchetype, "archetype", "", "Archetype id for --op preset")
	sessionApplyCmd.Flags().Int64Var(&applyIfVersion, "if-version", -1, "Reject the command unless the build is at this version")
	_ = sessionApplyCmd.MarkFlagRequired("op") // nolint:errcheck // safe to ignore in init

	sessionExportCmd.Flags().StringVar(&exportName, "name", "", "Override the exported name")
	sessionExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write the snapshot to a file instead of stdout")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionApplyCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionListCmd)
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// createService wires the builder orchestrator over Redis
func createService(ctx context.Context) (builder.Service, func(), error) {
	cat, err := loadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	client, err := redis.NewClientFromURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create redis client")
	}
	cleanup := func() {
		_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	if err := client.Ping(ctx).Err(); err != nil {
		cleanup()
		return nil, nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to reach redis").
			WithMeta("redis_url", cfg.RedisURL)
	}

	clk := clock.New()
	repo, err := buildrepo.NewRedisRepository(&buildrepo.RedisConfig{
		Client: client,
		Clock:  clk,
		TTL:    cfg.SessionTTL,
	})
	if err != nil {
		cleanup()
		return nil, nil, errors.Wrap(err, "failed to create build repository")
	}

	svc, err := builder.NewOrchestrator(&builder.Config{
		Catalog:     cat,
		Repository:  repo,
		IDGenerator: idgen.NewUUID("build"),
		Clock:       clk,
		Limits:      limitsFor(cat),
		SessionTTL:  cfg.SessionTTL,
	})
	if err != nil {
		cleanup()
		return nil, nil, errors.Wrap(err, "failed to create builder")
	}

	return svc, cleanup, nil
}

func withService(cmd *cobra.Command, fn func(ctx context.Context, svc builder.Service) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, cleanup, err := createService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, svc)
}

func runSessionStart(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc builder.Service) error {
		resp, err := svc.StartBuild(ctx, &builder.StartBuildInput{
			OwnerID:       ownerID,
			Name:          sessionName,
			Description:   sessionDescription,
			PresetID:      sessionPreset,
			ArchetypeID:   sessionArchetype,
			ApplyDefaults: !sessionNoDefaults,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Build %s started\n", resp.Build.ID)
		if len(resp.Dropped) > 0 {
			fmt.Fprintf(out, "Dropped from preset: %s\n", strings.Join(resp.Dropped, ", "))
		}
		printBuild(out, resp.Build, resp.View)
		return nil
	})
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(ctx context.Context, svc builder.Service) error {
		resp, err := svc.GetBuild(ctx, &builder.GetBuildInput{BuildID: args[0]})
		if err != nil {
			return err
		}
		printBuild(cmd.OutOrStdout(), resp.Build, resp.View)
		return nil
	})
}

func runSessionApply(cmd *cobra.Command, args []string) error {
	var ifVersion *uint64
	if applyIfVersion >= 0 {
		v := uint64(applyIfVersion)
		ifVersion = &v
	}

	if applyOp == opPreset {
		if sessionPreset == "" {
			return errors.InvalidArgument("--op preset requires --preset")
		}
		return withService(cmd, func(ctx context.Context, svc builder.Service) error {
			resp, err := svc.LoadPreset(ctx, &builder.LoadPresetInput{
				BuildID:     args[0],
				PresetID:    sessionPreset,
				ArchetypeID: sessionArchetype,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(resp.Dropped) > 0 {
				fmt.Fprintf(out, "Dropped from preset: %s\n", strings.Join(resp.Dropped, ", "))
			}
			printBuild(out, resp.Build, resp.View)
			return nil
		})
	}

	command, err := commandFromFlags(applyOp, applyTrait, applyOption)
	if err != nil {
		return err
	}

	return withService(cmd, func(ctx context.Context, svc builder.Service) error {
		if command.Name() == selection.CommandSetDefaults {
			// defaults come from the catalog the service was built with
			cat, err := loadCatalog(ctx)
			if err != nil {
				return err
			}
			command = selection.SetDefaults{TraitIDs: cat.DefaultTraitIDs()}
		}

		resp, err := svc.ApplyCommand(ctx, &builder.ApplyCommandInput{
			BuildID:   args[0],
			Command:   command,
			IfVersion: ifVersion,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !resp.Changed {
			msg := "No change"
			if resp.Reason != "" {
				msg = fmt.Sprintf("%s: %s", msg, resp.Reason)
			}
			if len(resp.Suggestions) > 0 {
				msg = fmt.Sprintf("%s (did you mean %s?)", msg, strings.Join(resp.Suggestions, ", "))
			}
			fmt.Fprintln(out, msg)
		}
		printBuild(out, resp.Build, resp.View)
		return nil
	})
}

func runSessionExport(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(ctx context.Context, svc builder.Service) error {
		resp, err := svc.ExportBuild(ctx, &builder.ExportBuildInput{
			BuildID: args[0],
			Name:    exportName,
		})
		if err != nil {
			return err
		}

		if exportOut == "" {
			return export.Write(cmd.OutOrStdout(), resp.Snapshot)
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create export file").
				WithMeta("path", exportOut)
		}
		if err := export.Write(f, resp.Snapshot); err != nil {
			_ = f.Close() // nolint:errcheck // write error takes precedence
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "failed to close export file")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], exportOut)
		return nil
	})
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(ctx context.Context, svc builder.Service) error {
		if _, err := svc.DeleteBuild(ctx, &builder.DeleteBuildInput{BuildID: args[0]}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Build %s deleted\n", args[0])
		return nil
	})
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	return withService(cmd, func(ctx context.Context, svc builder.Service) error {
		resp, err := svc.ListBuilds(ctx, &builder.ListBuildsInput{OwnerID: ownerID})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(resp.Builds) == 0 {
			fmt.Fprintf(out, "No builds for %s\n", ownerID)
			return nil
		}
		for _, row := range resp.Builds {
			status := "incomplete"
			if row.Complete {
				status = "complete"
			}
			fmt.Fprintf(out, "%-44s %-24s %4d pts  v%-4d %s\n",
				row.Build.ID, displayName(row.Build.Name, "-"), row.PointsSpent, row.Build.Version, status)
		}
		return nil
	})
}

// commandFromFlags maps apply flags onto a selection command
func commandFromFlags(op, traitID, optionID string) (selection.Command, error) {
	needTrait := func() error {
		if traitID == "" {
			return errors.InvalidArgumentf("--op %s requires --trait", op)
		}
		return nil
	}

	switch op {
	case opSelect:
		if err := needTrait(); err != nil {
			return nil, err
		}
		return selection.SelectTrait{TraitID: traitID}, nil
	case opDeselect:
		if err := needTrait(); err != nil {
			return nil, err
		}
		return selection.DeselectTrait{TraitID: traitID}, nil
	case opToggle:
		if err := needTrait(); err != nil {
			return nil, err
		}
		return selection.ToggleTrait{TraitID: traitID}, nil
	case opOption:
		if err := needTrait(); err != nil {
			return nil, err
		}
		if optionID == "" {
			return nil, errors.InvalidArgument("--op option requires --option")
		}
		return selection.SetOption{TraitID: traitID, OptionID: optionID}, nil
	case opDefaults:
		return selection.SetDefaults{}, nil
	case opReset:
		return selection.Reset{}, nil
	default:
		return nil, errors.InvalidArgumentf("unknown operation %q", op).WithMeta("op", op)
	}
}

func printBuild(w io.Writer, b *ancestry.Build, view selection.View) {
	fmt.Fprintf(w, "Build: %s (version %d)\n", b.ID, b.Version)
	if b.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", b.Name)
	}
	if b.ExpiresAt > 0 {
		fmt.Fprintf(w, "Expires: %s\n", time.Unix(b.ExpiresAt, 0).UTC().Format(time.RFC3339))
	}
	printView(w, view)
}
