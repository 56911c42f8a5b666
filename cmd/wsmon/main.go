package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yourusername/wsmon/internal/client"
	wsConfig "github.com/yourusername/wsmon/internal/config"
	"github.com/yourusername/wsmon/internal/dispatch"
	"github.com/yourusername/wsmon/internal/layout"
	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
	"github.com/yourusername/wsmon/internal/output"
	"github.com/yourusername/wsmon/internal/state"
)

var (
	configPath string
	socketPath string
	jsonOutput bool
	noColor    bool
	debugMode  bool
	noReload   bool

	cfg   *wsConfig.Config
	store *state.Store

	// Color functions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "wsmon",
	Short: "Per-monitor workspaces for sway",
	Long: `wsmon maps the keys 1-9 to workspaces of the focused monitor.

Monitors are ordered by ~/.config/sway/workspace-monitors.conf, then by name.
The first monitor owns workspaces 1-9, the second 11-19, the third 21-29, and so on.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("%w: unknown command %q", models.ErrInvalidArgument, args[0])
		}
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		loaded, err := wsConfig.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logging.SetLevel(cfg.Settings.LogLevel); err != nil {
			return err
		}
		if debugMode {
			logging.SetDebug(true)
		}

		store = state.NewStore(cfg.Settings.OrderFile, cfg.Settings.LockFile)
		logging.Debug().Str("command", cmd.CommandPath()).Strs("args", args).Msg("invocation")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("%w: missing command", models.ErrInvalidArgument)
	},
}

// keyArgs requires exactly one local key argument
func keyArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: %s expects one key 1-9, got %d arguments", models.ErrInvalidArgument, cmd.Name(), len(args))
	}
	return nil
}

// newWorkspaceCmd builds switch, move and move-follow
func newWorkspaceCmd(action dispatch.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <1-9>",
		Short: short,
		Args:  keyArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate before touching the socket so a bad key never reaches sway
			if _, err := layout.ParseLocalKey(args[0]); err != nil {
				return err
			}

			d, err := newDispatcher()
			if err != nil {
				return err
			}

			workspace, err := d.Run(cmd.Context(), action, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(map[string]interface{}{
					"action":    action,
					"workspace": workspace,
				})
			}
			return nil
		},
	}
}

var switchCmd = newWorkspaceCmd(dispatch.ActionSwitch, "Focus workspace <key> of the focused monitor")
var moveCmd = newWorkspaceCmd(dispatch.ActionMove, "Move the focused container to workspace <key> of the focused monitor")
var moveFollowCmd = newWorkspaceCmd(dispatch.ActionMoveFollow, "Move the focused container to workspace <key> and follow it")

// listCmd prints the merged monitor order
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitors in workspace order",
	Long: `Prints each active monitor with its index and workspace range.
Configured monitors come first in file order, the rest follow by name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher()
		if err != nil {
			return err
		}

		snap, assignments, err := d.List(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{
				"monitors":     assignments,
				"focused":      snap.Focused,
				"focusedIndex": snap.FocusedIndex,
			})
		}

		if len(assignments) == 0 {
			fmt.Println("No active outputs")
			return nil
		}

		showTable, _ := cmd.Flags().GetBool("table")
		if showTable {
			output.PrintAssignmentsTable(os.Stdout, assignments, snap.Outputs, snap.Configured())
			return nil
		}
		output.PrintMonitorList(os.Stdout, assignments)
		return nil
	},
}

// remapCmd pins workspaces to their monitors
var remapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Assign every monitor's workspaces to it",
	Long:  `Sends one sway command binding workspaces 1-9 to monitor 0, 11-19 to monitor 1, and so on.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher()
		if err != nil {
			return err
		}

		assignments, err := d.Remap(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(assignments)
		}
		successColor.Printf("✓ Remapped %d monitors\n", len(assignments))
		return nil
	},
}

// watchCmd keeps the mapping current
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Remap on every output or ordering change",
	Long: `Runs until interrupted. Remaps once at start, then whenever sway reports an
output change or the ordering file is edited.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.NewClient(socketPathSetting())
		if err != nil {
			return err
		}
		d := dispatch.New(c, store)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logging.Info().Str("order_file", store.OrderPath).Msg("watching for output changes")
		return d.Watch(ctx, c, store.OrderPath)
	},
}

// orderCmd is the parent command for ordering file subcommands
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Inspect or update the monitor ordering file",
}

// orderShowCmd prints persisted entries
var orderShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the ordering file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := store.ReadEntries()
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(entries)
		}

		if len(entries) == 0 {
			fmt.Printf("No ordering entries in %s\n", store.OrderPath)
			return nil
		}

		// Status is best effort; the file is still shown without sway
		var active map[string]bool
		if c, err := client.NewClient(socketPathSetting()); err == nil {
			if outputs, err := c.Outputs(cmd.Context()); err == nil {
				active = make(map[string]bool, len(outputs))
				for _, o := range outputs {
					active[o.Name] = true
				}
			}
		}

		output.PrintEntriesTable(os.Stdout, entries, active)
		fmt.Printf("\nFile: %s\n", store.OrderPath)
		return nil
	},
}

// orderSaveCmd writes the live order back to the file
var orderSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current monitor order and positions",
	Long: `Writes the current merged order to the ordering file, taking positions from
the live output layout. Entries for disconnected monitors are kept at the end.
The positions include is then regenerated and sway reloaded, unless --no-reload.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDispatcher()
		if err != nil {
			return err
		}

		existing, err := store.ReadEntries()
		if err != nil {
			warnColor.Fprintf(os.Stderr, "Warning: %v\n", err)
			existing = nil
		}

		entries, err := d.SnapshotEntries(cmd.Context(), existing)
		if err != nil {
			return err
		}
		if err := store.WriteEntries(entries); err != nil {
			return err
		}
		if !noReload {
			if err := d.ApplyPositions(cmd.Context(), store, entries, cfg.Settings.PositionsFile); err != nil {
				return err
			}
		}

		if jsonOutput {
			return printJSON(entries)
		}
		successColor.Printf("✓ Saved %d entries to %s\n", len(entries), store.OrderPath)
		if !noReload {
			successColor.Printf("✓ Applied positions from %s\n", cfg.Settings.PositionsFile)
		}
		return nil
	},
}

// orderPositionsCmd renders the sway output positions include
var orderPositionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Write sway output positions from the ordering file and reload sway",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := store.ReadEntries()
		if err != nil {
			return err
		}

		path := cfg.Settings.PositionsFile
		if noReload {
			err = store.WritePositions(entries, path)
		} else {
			var d *dispatch.Dispatcher
			if d, err = newDispatcher(); err == nil {
				err = d.ApplyPositions(cmd.Context(), store, entries, path)
			}
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{"path": path, "entries": entries, "reloaded": !noReload})
		}
		successColor.Printf("✓ Wrote %d output positions to %s\n", len(entries), path)
		return nil
	},
}

// orderMoveCmd shifts a monitor in the workspace order
var orderMoveCmd = &cobra.Command{
	Use:   "move <output> <up|down>",
	Short: "Move a monitor one place up or down in the workspace order",
	Long: `Moves an entry of the ordering file one place. Moving the first entry up or
the last entry down changes nothing. Run "wsmon order save" first if the
monitor is not in the file yet.`,
	Args: orderArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var delta int
		switch args[1] {
		case "up":
			delta = -1
		case "down":
			delta = 1
		default:
			return fmt.Errorf("%w: direction must be up or down, got %q", models.ErrInvalidArgument, args[1])
		}

		entries, err := store.Update(func(entries []models.OrderingEntry) ([]models.OrderingEntry, error) {
			return state.MoveEntry(entries, args[0], delta)
		})
		if err != nil {
			return err
		}
		return printOrder(entries)
	},
}

// orderPrimaryCmd marks the single primary monitor
var orderPrimaryCmd = &cobra.Command{
	Use:   "primary <output>",
	Short: "Mark a monitor as the primary one",
	Args:  orderArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := store.Update(func(entries []models.OrderingEntry) ([]models.OrderingEntry, error) {
			return state.SetPrimary(entries, args[0])
		})
		if err != nil {
			return err
		}
		return printOrder(entries)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+wsConfig.GetConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "sway IPC socket (default $SWAYSOCK)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	})

	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(moveFollowCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(orderCmd)

	listCmd.Flags().Bool("table", false, "Show a table with geometry and focus")
	orderCmd.PersistentFlags().BoolVar(&noReload, "no-reload", false, "Write the positions include without reloading sway")

	orderCmd.AddCommand(orderShowCmd)
	orderCmd.AddCommand(orderSaveCmd)
	orderCmd.AddCommand(orderPositionsCmd)
	orderCmd.AddCommand(orderMoveCmd)
	orderCmd.AddCommand(orderPrimaryCmd)
}

func main() {
	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "wsmon: logging disabled: %v\n", err)
	}
	defer logging.Close()

	cmd, err := rootCmd.ExecuteContextC(context.Background())
	if err != nil {
		logging.Error().Err(err).Msg("command failed")
		printError(err.Error())
		if errors.Is(err, models.ErrInvalidArgument) {
			fmt.Fprint(os.Stderr, "\n"+cmd.UsageString())
		}
		if client.IsBackendError(err) {
			if path, perr := client.ResolveSocketPath(socketPathSetting()); perr == nil {
				warnColor.Fprintf(os.Stderr, "sway socket: %s\n", path)
			}
		}
		logging.Close()
		os.Exit(1)
	}
}

// Helper functions

// socketPathSetting prefers --socket over the config file
func socketPathSetting() string {
	if socketPath != "" {
		return socketPath
	}
	if cfg != nil {
		return cfg.Settings.SocketPath
	}
	return ""
}

// newDispatcher connects to sway and wires the ordering store
func newDispatcher() (*dispatch.Dispatcher, error) {
	c, err := client.NewClient(socketPathSetting())
	if err != nil {
		return nil, err
	}
	return dispatch.New(c, store), nil
}

// orderArgs requires exactly n positional arguments
func orderArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects %d arguments, got %d", models.ErrInvalidArgument, cmd.Name(), n, len(args))
		}
		return nil
	}
}

// printOrder shows the ordering after an edit
func printOrder(entries []models.OrderingEntry) error {
	if jsonOutput {
		return printJSON(entries)
	}
	output.PrintEntriesTable(os.Stdout, entries, nil)
	successColor.Printf("✓ Updated %s\n", store.OrderPath)
	return nil
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printError(msg string) {
	if noColor {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	} else {
		errorColor.Fprint(os.Stderr, "✗ Error: ")
		fmt.Fprintln(os.Stderr, msg)
	}
}
