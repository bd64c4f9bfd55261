package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/studiowebux/itemconsole/internal/analytics"
	"github.com/studiowebux/itemconsole/internal/cli"
	"github.com/studiowebux/itemconsole/internal/config"
	"github.com/studiowebux/itemconsole/internal/console"
	"github.com/studiowebux/itemconsole/internal/executor"
	"github.com/studiowebux/itemconsole/internal/filter"
	"github.com/studiowebux/itemconsole/internal/history"
	"github.com/studiowebux/itemconsole/internal/keybinds"
	"github.com/studiowebux/itemconsole/internal/session"
	"github.com/studiowebux/itemconsole/internal/tui"
	"github.com/studiowebux/itemconsole/internal/types"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "itemconsole",
	Short: "Item console - request console for an items CRUD API",
	Long: `Item console sends create, read, update and delete requests to an items API
and shows the latest response next to a log of the last 12 requests.

Run without arguments to start the TUI, or use a subcommand to send one request.

Examples:
  itemconsole                                   # Start interactive TUI
  itemconsole base-url https://api.example.com  # Save the base URL
  itemconsole create --name Widget --priority 3 # Create an item
  itemconsole get 42 -o json                    # Read an item as JSON
  itemconsole get 42 --query name               # Read one field
  itemconsole history --limit 5                 # Show archived requests
  itemconsole history --path /items/42          # Show requests for one item`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()
		return a.runTUI()
	},
}

var baseURLCmd = &cobra.Command{
	Use:   "base-url [url]",
	Short: "Show or save the base URL",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			if len(args) == 0 {
				return r.BaseURL()
			}
			return r.SaveBaseURL(args[0])
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.Create(cmd.Context(), formFromFlags())
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Read an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.Get(cmd.Context(), args[0])
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.Update(cmd.Context(), args[0], formFromFlags())
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.Delete(cmd.Context(), args[0])
		})
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Create an item from sample values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.Sample(cmd.Context())
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.History(flagPath, flagLimit)
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call counts and durations per endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		stats, err := analytics.NewManager(config.DatabasePath)
		if err != nil {
			return err
		}
		defer stats.Close()

		r, err := cli.New(nil, nil, cli.Options{
			Output:  flagOutput,
			NoColor: flagNoColor,
			Stats:   stats,
		})
		if err != nil {
			return err
		}
		return r.Stats()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every archived request",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.ClearHistory()
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one archived request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *cli.Runner) error {
			return r.DeleteHistory(args[0])
		})
	},
}

var historyEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Archive requests in the history database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHistoryEnabled(true)
	},
}

var historyDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop archiving requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHistoryEnabled(false)
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List saved filter expressions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBookmarks(func(r *cli.Runner) error {
			return r.Bookmarks()
		})
	},
}

var bookmarksAddCmd = &cobra.Command{
	Use:   "add <expression>",
	Short: "Save a filter expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBookmarks(func(r *cli.Runner) error {
			return r.AddBookmark(args[0])
		})
	},
}

var bookmarksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved filter expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid bookmark id %q", args[0])
		}
		return withBookmarks(func(r *cli.Runner) error {
			return r.DeleteBookmark(id)
		})
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Manage TUI key bindings",
}

var keybindsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default key bindings to keybinds.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeybindsInit(flagForce)
	},
}

var keybindsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the key bindings active in a context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeybindsList(flagContext)
	},
}

var keybindsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate keybinds.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeybindsCheck()
	},
}

// Global flags
var (
	flagOutput    string
	flagQuery     string
	flagTimeout   time.Duration
	flagInsecure  bool
	flagCAFile    string
	flagCertFile  string
	flagKeyFile   string
	flagNoHistory bool
	flagNoColor   bool
)

// Item form flags for create/update
var (
	flagName     string
	flagOwner    string
	flagCategory string
	flagNotes    string
	flagPriority string
)

var (
	flagLimit   int
	flagPath    string
	flagForce   bool
	flagContext string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format (text/json/yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(command) applied to the response body")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Request timeout (0 waits indefinitely)")
	rootCmd.PersistentFlags().BoolVarP(&flagInsecure, "insecure", "k", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().StringVar(&flagCAFile, "ca-file", "", "CA certificate file for TLS verification")
	rootCmd.PersistentFlags().StringVar(&flagCertFile, "cert-file", "", "Client certificate file for mTLS")
	rootCmd.PersistentFlags().StringVar(&flagKeyFile, "key-file", "", "Client key file for mTLS")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not archive requests")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	for _, cmd := range []*cobra.Command{createCmd, updateCmd} {
		cmd.Flags().StringVar(&flagName, "name", "", "Item name")
		cmd.Flags().StringVar(&flagOwner, "owner", "", "Item owner")
		cmd.Flags().StringVar(&flagCategory, "category", "", "Item category")
		cmd.Flags().StringVar(&flagNotes, "notes", "", "Item notes")
		cmd.Flags().StringVar(&flagPriority, "priority", "", "Item priority (number)")
	}

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().StringVar(&flagPath, "path", "", "Only show requests sent to this path, e.g. /items/42")
	keybindsInitCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Overwrite an existing keybinds.json")
	keybindsListCmd.Flags().StringVar(&flagContext, "context", "form", "Context to list (global, form or modal)")

	historyCmd.AddCommand(historyClearCmd, historyDeleteCmd, historyEnableCmd, historyDisableCmd)
	keybindsCmd.AddCommand(keybindsInitCmd, keybindsListCmd, keybindsCheckCmd)
	bookmarksCmd.AddCommand(bookmarksAddCmd, bookmarksDeleteCmd)

	rootCmd.AddCommand(baseURLCmd, createCmd, getCmd, updateCmd, deleteCmd, sampleCmd, historyCmd, statsCmd, bookmarksCmd, keybindsCmd)
}

func formFromFlags() types.ItemForm {
	return types.ItemForm{
		Name:     flagName,
		Owner:    flagOwner,
		Category: flagCategory,
		Notes:    flagNotes,
		Priority: flagPriority,
	}
}

// app holds the collaborators shared by the TUI and the subcommands
type app struct {
	session *session.Manager
	console *console.Console
	history *history.Manager
}

func setup() (*app, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load session: %v\n", err)
	}

	clientOpts := []executor.ClientOption{executor.WithTimeout(flagTimeout)}
	if flagInsecure || flagCAFile != "" || flagCertFile != "" || flagKeyFile != "" {
		clientOpts = append(clientOpts, executor.WithTLSConfig(&types.TLSConfig{
			InsecureSkipVerify: flagInsecure,
			CAFile:             flagCAFile,
			CertFile:           flagCertFile,
			KeyFile:            flagKeyFile,
		}))
	}
	client, err := executor.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	a := &app{session: mgr}

	var consoleOpts []console.Option
	if !flagNoHistory && mgr.IsHistoryEnabled() {
		hist, err := history.NewManager(config.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			a.history = hist
			consoleOpts = append(consoleOpts, console.WithArchive(hist))
		}
	}

	a.console = console.New(mgr, client, consoleOpts...)
	return a, nil
}

func (a *app) close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close history: %v\n", err)
		}
	}
}

// archive returns the history manager as an interface, nil when disabled
func (a *app) archive() cli.Archive {
	if a.history == nil {
		return nil
	}
	return a.history
}

func (a *app) runTUI() error {
	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using default key bindings\n", err)
		registry = keybinds.NewDefaultRegistry()
	}

	opts := tui.Options{
		Console:  a.console,
		Keybinds: registry,
		Session:  a.session,
		NoColor:  flagNoColor,
	}
	if a.history != nil {
		opts.History = a.history
	}

	bookmarks, err := filter.NewBookmarkManager(config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: bookmarks disabled: %v\n", err)
	} else {
		defer bookmarks.Close()
		opts.Bookmarks = bookmarks
	}

	return tui.Run(opts)
}

// withRunner sets up the console and runs fn against a CLI runner
func withRunner(fn func(r *cli.Runner) error) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	r, err := cli.New(a.console, a.archive(), cli.Options{
		Output:  flagOutput,
		Query:   flagQuery,
		NoColor: flagNoColor,
	})
	if err != nil {
		return err
	}
	return fn(r)
}

// withBookmarks runs fn against a runner backed by the bookmark store only
func withBookmarks(fn func(r *cli.Runner) error) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	bookmarks, err := filter.NewBookmarkManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer bookmarks.Close()

	r, err := cli.New(nil, nil, cli.Options{
		Output:    flagOutput,
		NoColor:   flagNoColor,
		Bookmarks: bookmarks,
	})
	if err != nil {
		return err
	}
	return fn(r)
}

func setHistoryEnabled(enabled bool) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := mgr.SetHistoryEnabled(enabled); err != nil {
		return err
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("History %s\n", state)
	return nil
}

func runKeybindsInit(force bool) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	if _, err := os.Stat(config.KeybindsFile); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.KeybindsFile)
	}
	if err := keybinds.SaveConfig(keybinds.ExportDefaults(), config.KeybindsFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", config.KeybindsFile)
	return nil
}

func runKeybindsList(name string) error {
	bindContext, err := keybinds.ParseContext(name)
	if err != nil {
		return err
	}
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	for _, b := range registry.ListBindings(bindContext) {
		fmt.Printf("%-8s %-12s %s\n", b.Context, b.Key, keybinds.GetActionInfo(b.Action).Description)
	}
	return nil
}

func runKeybindsCheck() error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg, err := keybinds.LoadConfig(config.KeybindsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("No keybinds.json, using defaults")
			return nil
		}
		return err
	}

	result := keybinds.ValidateConfig(cfg)
	if result.HasErrors() || result.HasWarnings() {
		fmt.Print(result.String())
	}
	if result.HasErrors() {
		return fmt.Errorf("invalid %s", config.KeybindsFile)
	}

	registry := keybinds.NewDefaultRegistry()
	if err := keybinds.ApplyConfig(registry, cfg); err != nil {
		return err
	}
	for _, shadowed := range keybinds.ShadowedBindings(registry) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", shadowed.Error())
	}
	fmt.Println("keybinds.json is valid")
	return nil
}
