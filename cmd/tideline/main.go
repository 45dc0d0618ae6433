package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/tideline/internal/api"
	"github.com/five82/tideline/internal/app"
	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/config"
	"github.com/five82/tideline/internal/logging"
	"github.com/five82/tideline/internal/metrics"
	"github.com/five82/tideline/internal/timeline"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

func main() {
	os.Exit(run())
}

func run() int {
	// godotenv never overrides variables already set in the environment.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	view := viewCmd()
	rootCmd := &cobra.Command{
		Use:           "tideline",
		Short:         "Zoomable timeline of dated, tagged entries",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          view.RunE,
	}
	rootCmd.Flags().AddFlagSet(view.Flags())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "override config path (default ~/.config/tideline/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug records")

	rootCmd.AddCommand(view)
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(layoutCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tideline: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openArchive loads the config and opens its archive. The caller closes it.
func openArchive() (config.Config, archive.Archive, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	src, closeSource, err := app.OpenSource(cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, src, closeSource, nil
}

func viewCmd() *cobra.Command {
	var pollSeconds int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the timeline viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: configPath,
				PollEvery:  pollSeconds,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().IntVar(&pollSeconds, "poll", 0, "refresh interval in seconds (default 5)")
	return cmd
}

func addCmd() *cobra.Command {
	var (
		date        string
		tags        []string
		description string
		image       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := archive.NewEntry{
				Date:        date,
				Description: description,
				ImageURL:    image,
			}
			for _, raw := range tags {
				tag, err := parseTagFlag(raw)
				if err != nil {
					return err
				}
				in.Tags = append(in.Tags, tag)
			}
			if err := in.Validate(); err != nil {
				return err
			}

			_, src, closeSource, err := openArchive()
			if err != nil {
				return err
			}
			defer closeSource()

			entry, err := src.AddEntry(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Added entry: %s\n", shortID(entry.ID))
			fmt.Printf("Date: %s\n", entry.Date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date, YYYY-MM-DD or RFC 3339")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag as name:#RRGGBB (repeatable)")
	cmd.Flags().StringVar(&description, "description", "", "entry description")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

// parseTagFlag splits "name:#color".
func parseTagFlag(raw string) (archive.Tag, error) {
	name, color, ok := strings.Cut(raw, ":")
	name, color = strings.TrimSpace(name), strings.TrimSpace(color)
	if !ok || name == "" || color == "" {
		return archive.Tag{}, fmt.Errorf("tag %q: want name:#color", raw)
	}
	return archive.Tag{Name: name, Color: color}, nil
}

func editCmd() *cobra.Command {
	var (
		date        string
		tags        []string
		description string
		image       string
		clearTags   bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, src, closeSource, err := openArchive()
			if err != nil {
				return err
			}
			defer closeSource()

			ctx := cmd.Context()
			current, err := archive.Get(ctx, src, args[0])
			if errors.Is(err, archive.ErrNotFound) {
				return fmt.Errorf("entry %s not found", args[0])
			}
			if err != nil {
				return err
			}

			in := archive.NewEntry{
				Date:        current.Date,
				Description: current.Description,
				ImageURL:    current.ImageURL,
				Tags:        current.Tags,
			}
			flags := cmd.Flags()
			if flags.Changed("date") {
				in.Date = date
			}
			if flags.Changed("description") {
				in.Description = description
			}
			if flags.Changed("image") {
				in.ImageURL = image
			}
			if clearTags || flags.Changed("tag") {
				in.Tags = nil
			}
			for _, raw := range tags {
				tag, err := parseTagFlag(raw)
				if err != nil {
					return err
				}
				in.Tags = append(in.Tags, tag)
			}
			if err := in.Validate(); err != nil {
				return err
			}

			entry, err := src.UpdateEntry(ctx, current.ID, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated entry: %s\n", shortID(entry.ID))
			fmt.Println(formatListLine(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date, YYYY-MM-DD or RFC 3339 (empty clears it)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "replace tags with name:#RRGGBB (repeatable)")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "remove every tag")
	cmd.Flags().StringVar(&description, "description", "", "entry description")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		limit int
		text  string
		tags  []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := archive.Query{Text: strings.TrimSpace(text)}
			for _, raw := range tags {
				tag, err := parseTagFlag(raw)
				if err != nil {
					return err
				}
				if !archive.ValidColor(tag.Color) {
					return fmt.Errorf("tag %q: invalid color %q", tag.Name, tag.Color)
				}
				q.Tags = append(q.Tags, archive.TagFilter{Name: tag.Name, Color: tag.Color})
			}

			_, src, closeSource, err := openArchive()
			if err != nil {
				return err
			}
			defer closeSource()

			entries, err := archive.Search(cmd.Context(), src, q)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				if q.Active() {
					fmt.Println("No entries match.")
				} else {
					fmt.Println("No entries yet. Use 'tideline add' to create one.")
				}
				return nil
			}

			sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			for _, e := range entries {
				fmt.Println(formatListLine(e))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&text, "query", "q", "", "match description or tag name")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "only entries carrying name:#RRGGBB (repeatable)")
	return cmd
}

func formatListLine(e archive.Entry) string {
	names := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		names = append(names, "#"+t.Name)
	}
	line := fmt.Sprintf("%s  %-10s  %s", shortID(e.ID), e.Date, strings.Join(names, " "))
	if d := strings.TrimSpace(e.Description); d != "" {
		line += "  " + truncate(d, 60)
	}
	return strings.TrimRight(line, " ")
}

// bulkImporter is implemented by archives that import in one transaction.
type bulkImporter interface {
	ImportEntries(ctx context.Context, entries []archive.NewEntry) (int, error)
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.yaml|file.json]",
		Short: "Import entries from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import: %w", err)
			}
			defer file.Close()

			entries, err := archive.ReadImport(file, archive.FormatFromPath(args[0]))
			if err != nil {
				return err
			}

			_, src, closeSource, err := openArchive()
			if err != nil {
				return err
			}
			defer closeSource()

			ctx := cmd.Context()
			count := 0
			if bulk, ok := src.(bulkImporter); ok {
				count, err = bulk.ImportEntries(ctx, entries)
				if err != nil {
					return err
				}
			} else {
				for i, in := range entries {
					if _, err := src.AddEntry(ctx, in); err != nil {
						return fmt.Errorf("entry %d: %w", i+1, err)
					}
					count++
				}
			}
			fmt.Printf("Imported %d entries from %s\n", count, args[0])
			return nil
		},
	}
}

func layoutCmd() *cobra.Command {
	var (
		zoom   float64
		hover  string
		width  float64
		scroll float64
		focus  string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed timeline frame as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, src, closeSource, err := openArchive()
			if err != nil {
				return err
			}
			defer closeSource()

			entries, err := src.FetchEntries(cmd.Context())
			if err != nil {
				return err
			}
			engine, err := timeline.NewEngine(timeline.Config{Location: cfg.Location()})
			if err != nil {
				return err
			}

			req := timeline.LayoutRequest{
				Entries:        entries,
				Zoom:           zoom,
				ScrollLeft:     scroll,
				ClientWidth:    width,
				HoveredCluster: hover,
			}
			if focus != "" {
				t, err := archive.ParseDate(focus, engine.Location())
				if err != nil {
					return fmt.Errorf("focus: %w", err)
				}
				req.Focus = &t
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(engine.Layout(req))
		},
	}

	cmd.Flags().Float64Var(&zoom, "zoom", 1, "zoom level")
	cmd.Flags().StringVar(&hover, "hover", "", "hovered cluster ID")
	cmd.Flags().Float64Var(&width, "width", 1280, "client width in pixels")
	cmd.Flags().Float64Var(&scroll, "scroll", 0, "scroll offset in pixels")
	cmd.Flags().StringVar(&focus, "focus", "", "centre this date (YYYY-MM-DD)")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the archive and layout API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, src, closeSource, err := openArchive()
			if err != nil {
				return err
			}
			defer closeSource()
			if cfg.Source == config.SourceHTTP {
				return errors.New("serve needs a local archive; set source = \"sqlite\"")
			}

			logger := logging.New(os.Stderr, verbose)
			engine, err := timeline.NewEngine(timeline.Config{Location: cfg.Location()})
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}

			metrics.BuildInfo.WithLabelValues(version).Set(1)

			server, err := api.New(api.Options{
				Addr:       addr,
				Archive:    src,
				Engine:     engine,
				Summarizer: app.NewSummarizer(logger),
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			logger.Info("serving", "addr", addr, "db", cfg.DBPath)
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config listen_addr)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
