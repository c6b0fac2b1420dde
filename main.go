// crowdkit — Crowdin Kit: translation completeness reconciliation and batch upload for Crowdin projects.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crowdkit/crowdkit/classify"
	"github.com/crowdkit/crowdkit/config"
	"github.com/crowdkit/crowdkit/crowdin"
	"github.com/crowdkit/crowdkit/i18n"
	"github.com/crowdkit/crowdkit/labels"
	"github.com/crowdkit/crowdkit/ratelimit"
	"github.com/crowdkit/crowdkit/reconcile"
	"github.com/crowdkit/crowdkit/report"
	"github.com/crowdkit/crowdkit/settings"
	"github.com/crowdkit/crowdkit/upload"
)

// version is set at build time via -ldflags.
var version = "dev"

// ---------------------------------------------------------------------------
// Logging helpers
// ---------------------------------------------------------------------------

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorCyan+"→ "+colorReset+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"✓ "+colorReset+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"! "+colorReset+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"✗ "+colorReset+format+"\n", args...)
}

// T is a shorthand for the translation lookup.
var T = i18n.T

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	flagRoot    string
	flagToken   string
	flagProject string
	flagBaseURL string
	flagProfile string
)

// ---------------------------------------------------------------------------
// Engine construction
// ---------------------------------------------------------------------------

// engine bundles the configured client and the services built on top of it.
type engine struct {
	cfg        *config.Config
	client     *crowdin.Client
	dir        *reconcile.Directory
	reconciler *reconcile.Reconciler
	labels     *labels.Manager
	uploader   *upload.Uploader
	classifier *classify.Classifier
}

// newEngine loads configuration, resolves credentials and wires the
// Crowdin client into the reconciliation, label and upload services.
func newEngine() (*engine, error) {
	root := flagRoot
	if root == "" {
		root = "."
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	cfg.APIToken = settings.ResolveToken(flagProfile, flagToken, cfg.APIToken)
	if flagProject != "" {
		id, perr := strconv.ParseInt(flagProject, 10, 64)
		if perr != nil {
			return nil, &crowdin.ConfigError{Reason: fmt.Sprintf("invalid project id %q", flagProject)}
		}
		cfg.ProjectID = id
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := crowdin.New(cfg.BaseURL, cfg.APIToken, cfg.ProjectID,
		crowdin.WithLimiter(ratelimit.New(cfg.RateLimit)))

	dir := reconcile.NewDirectory(client)
	rec := reconcile.New(client, dir)
	rec.SetWorkers(cfg.Workers)

	up := upload.New(client)
	up.SetWorkers(cfg.Workers)

	return &engine{
		cfg:        cfg,
		client:     client,
		dir:        dir,
		reconciler: rec,
		labels:     labels.New(client),
		uploader:   up,
		classifier: classify.New(cfg.Names, cfg.Brands),
	}, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crowdkit",
		Short: T("Reconcile and upload Crowdin translations"),
		Long: T(`crowdkit finds source strings that are missing translations in a
Crowdin project, classifies them by content type, and uploads
translations in parallel batches.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flagRoot, "root", "r", "", T("project root directory (default: current directory)"))
	cmd.PersistentFlags().StringVar(&flagToken, "token", "", T("Crowdin API token (overrides config and stored credentials)"))
	cmd.PersistentFlags().StringVar(&flagProject, "project", "", T("Crowdin project ID"))
	cmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", T("Crowdin API base URL"))
	cmd.PersistentFlags().StringVar(&flagProfile, "profile", settings.DefaultProfile, T("credential profile name"))

	cmd.AddCommand(
		newStatusCmd(),
		newUntranslatedCmd(),
		newSearchCmd(),
		newUploadCmd(),
		newLabelsCmd(),
		newClassifyCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return cmd
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: T("Show project languages and configuration"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			langs, err := eng.dir.Resolve(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBold, T("Project"), colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			fmt.Fprintf(os.Stderr, "  %-18s %d\n", T("Project ID:"), eng.cfg.ProjectID)
			fmt.Fprintf(os.Stderr, "  %-18s %s\n", T("Base URL:"), eng.cfg.BaseURL)
			fmt.Fprintf(os.Stderr, "  %-18s %d\n", T("Target languages:"), len(langs))
			fmt.Fprintln(os.Stderr)

			fmt.Println(report.ProjectInfo(eng.cfg.ProjectID, langs))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// untranslated
// ---------------------------------------------------------------------------

func newUntranslatedCmd() *cobra.Command {
	var (
		limit   int
		exclude []string
	)
	cmd := &cobra.Command{
		Use:   "untranslated",
		Short: T("List source strings missing translations"),
		Long: T(`Queries Crowdin for source strings whose translation count is below
the number of target languages, then checks each candidate per
language to report exactly which languages are missing.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			if limit <= 0 {
				limit = eng.cfg.SearchLimit
			}
			excludeLabels := exclude
			if !cmd.Flags().Changed("exclude-label") {
				excludeLabels = eng.cfg.ExcludeLabels
			}

			logInfo(T("Searching for untranslated strings (limit %d)..."), limit)
			rep, err := eng.reconciler.Untranslated(ctx, limit, excludeLabels)
			if err != nil {
				return err
			}

			logSuccess(i18n.N("Found %d candidate string", "Found %d candidate strings", rep.TotalCandidates), rep.TotalCandidates)
			fmt.Println(report.Untranslated(rep))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, T("maximum number of strings to inspect"))
	cmd.Flags().StringSliceVar(&exclude, "exclude-label", nil, T("skip strings carrying this label (repeatable)"))
	return cmd
}

// ---------------------------------------------------------------------------
// search
// ---------------------------------------------------------------------------

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: T("Find a source string by exact text and show its translation status"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			st, err := eng.reconciler.SearchByText(ctx, args[0])
			if errors.Is(err, crowdin.ErrNotFound) {
				logWarning(T("No source string matches %q"), args[0])
				return err
			}
			if err != nil {
				return err
			}
			langs, err := eng.dir.Resolve(ctx)
			if err != nil {
				return err
			}

			ann := eng.classifier.Annotate(st.String.Text, st.String.Identifier)
			if ann.Type != classify.Regular {
				logInfo(T("Classified as %s (translate by default: %v)"), ann.Type, ann.TranslateByDefault)
			}
			fmt.Println(report.SearchDetail(st, langs))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// upload
// ---------------------------------------------------------------------------

func newUploadCmd() *cobra.Command {
	var fromFile string
	cmd := &cobra.Command{
		Use:   "upload [string-id language text]",
		Short: T("Upload translations, singly or in a batch"),
		Long: T(`Uploads one translation given as arguments, or a batch read from a
JSON file of {"string_id", "language_code", "translation"} objects.
Batch uploads are best-effort: every item is attempted and per-item
results are reported.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			var items []upload.Item
			switch {
			case fromFile != "":
				if len(args) != 0 {
					return errors.New(T("cannot combine --file with positional arguments"))
				}
				items, err = readUploadFile(fromFile)
				if err != nil {
					return err
				}
			case len(args) == 3:
				id, perr := strconv.ParseInt(args[0], 10, 64)
				if perr != nil {
					return fmt.Errorf(T("invalid string id %q"), args[0])
				}
				items = []upload.Item{{StringID: id, Language: args[1], Text: args[2]}}
			default:
				return errors.New(T("expected --file or exactly three arguments: string-id language text"))
			}

			if len(items) == 0 {
				logWarning(T("Nothing to upload"))
				return nil
			}

			logInfo(i18n.N("Uploading %d translation...", "Uploading %d translations...", len(items)), len(items))

			// Large inputs go up in config-sized batches, each with its
			// own batch ID.
			var results []upload.Result
			for start := 0; start < len(items); start += eng.cfg.BatchSize {
				end := start + eng.cfg.BatchSize
				if end > len(items) {
					end = len(items)
				}
				results = append(results, eng.uploader.Batch(ctx, items[start:end])...)
			}
			summary := upload.Summarize(results)

			if summary.Failed == 0 {
				logSuccess(T("Uploaded %d/%d"), summary.Succeeded, summary.Total)
			} else {
				logWarning(T("Uploaded %d/%d, %d failed"), summary.Succeeded, summary.Total, summary.Failed)
			}
			fmt.Println(report.UploadSummary(results))
			return nil
		},
	}
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", T("JSON file with the translations to upload"))
	return cmd
}

func readUploadFile(path string) ([]upload.Item, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	var items []upload.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse upload file: %w", err)
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// labels
// ---------------------------------------------------------------------------

func newLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: T("Manage project labels"),
	}
	cmd.AddCommand(newLabelsListCmd(), newLabelsAssignCmd(), newLabelsUnassignCmd())
	return cmd
}

func newLabelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: T("List project labels"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			all, err := eng.labels.List(ctx)
			if err != nil {
				return err
			}
			fmt.Println(report.Labels(all))
			return nil
		},
	}
}

func newLabelsAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <label> <string-id>...",
		Short: T("Attach a label to strings, creating the label if needed"),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			ids, err := parseStringIDs(args[1:])
			if err != nil {
				return err
			}
			label, err := eng.labels.GetOrCreate(ctx, args[0])
			if err != nil {
				return err
			}
			if err := eng.labels.Assign(ctx, label.ID, ids); err != nil {
				return err
			}
			logSuccess(i18n.N("Label %q assigned to %d string", "Label %q assigned to %d strings", len(ids)), label.Title, len(ids))
			return nil
		},
	}
}

func newLabelsUnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <label> <string-id>...",
		Short: T("Detach a label from strings"),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			ids, err := parseStringIDs(args[1:])
			if err != nil {
				return err
			}
			label, err := eng.labels.Find(ctx, args[0])
			if errors.Is(err, crowdin.ErrNotFound) {
				logWarning(T("Label %q does not exist"), args[0])
				return err
			}
			if err != nil {
				return err
			}
			if err := eng.labels.Unassign(ctx, label.ID, ids); err != nil {
				return err
			}
			logSuccess(i18n.N("Label %q removed from %d string", "Label %q removed from %d strings", len(ids)), label.Title, len(ids))
			return nil
		},
	}
}

func parseStringIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf(T("invalid string id %q"), a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// classify
// ---------------------------------------------------------------------------

func newClassifyCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: T("Classify a string by content type"),
		Long: T(`Classifies a source string as regular text, a language name, a proper
name, a brand, or a technical value. Language names and technical
values are not translated by default; proper names require
confirmation.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Classification is purely local: no credentials needed.
			root := flagRoot
			if root == "" {
				root = "."
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			ann := classify.New(cfg.Names, cfg.Brands).Annotate(args[0], key)

			fmt.Printf("%s: %s\n", T("Type"), ann.Type)
			fmt.Printf("%s: %v\n", T("Translate by default"), ann.TranslateByDefault)
			if ann.NeedsConfirmation {
				fmt.Printf("%s: %v\n", T("Needs confirmation"), ann.NeedsConfirmation)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", T("string identifier, used for technical-value hints"))
	return cmd
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: T("Manage stored Crowdin credentials"),
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: T("Store an API token for later use"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := settings.Get(flagProfile)
			if info == nil {
				info = &settings.Info{}
			}
			info.Token = args[0]
			if flagProject != "" {
				id, perr := strconv.ParseInt(flagProject, 10, 64)
				if perr != nil {
					return fmt.Errorf(T("invalid project id %q"), flagProject)
				}
				info.ProjectID = id
			}
			if flagBaseURL != "" {
				info.BaseURL = flagBaseURL
			}
			if err := settings.Set(flagProfile, info); err != nil {
				return err
			}
			logSuccess(T("Token %s saved to %s"), settings.MaskKey(args[0]), settings.FilePath())
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: T("Remove stored credentials"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess(T("All credentials removed"))
				return nil
			}
			if settings.Get(flagProfile) == nil {
				logWarning(T("No credentials stored for profile %q"), flagProfile)
				return nil
			}
			if err := settings.Remove(flagProfile); err != nil {
				return err
			}
			logSuccess(T("Credentials removed"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, T("remove all profiles"))
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: T("Show which credentials are stored"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := settings.Load()
			if len(store) == 0 {
				logInfo(T("No stored credentials"))
				return nil
			}
			for name, info := range store {
				fmt.Fprintf(os.Stderr, "  %-12s %s\n", name, settings.MaskKey(info.Token))
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: T("Print the crowdkit version"),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("crowdkit %s\n", version)
		},
	}
}

// ---------------------------------------------------------------------------
// main
// ---------------------------------------------------------------------------

func main() {
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		var cfgErr *crowdin.ConfigError
		if errors.As(err, &cfgErr) {
			logError(T("Configuration error: %s"), cfgErr.Reason)
		} else {
			logError("%v", err)
		}
		os.Exit(1)
	}
}
