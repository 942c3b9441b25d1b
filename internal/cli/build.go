package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"relaymap/pkg/graphio"
	"relaymap/pkg/pipeline"
	"relaymap/pkg/relay"
	"relaymap/pkg/store"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	buildDir  string // project root for source scanning
	algorithm string // layout algorithm
	offset    int    // reference node ID offset
	context   int    // lines around the error to scan
	noAnalyze bool   // skip source scanning
	refresh   bool   // bypass cache
	noCache   bool   // disable cache entirely
	persist   bool   // store the result in the configured document store
	output    string // output file path (stdout if empty)
}

// buildCommand creates the build command. It reads compiler output from a
// file argument or stdin and emits the laid-out relay graph as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build [errors-file]",
		Short: "Build a relay graph from compiler output",
		Long: `Build parses compiler output (GCC, Clang, MSVC, or Unity formats), builds
a relay graph around the error locations, scans the sources for related
symbols, and computes a layout.

Reads from stdin when no file is given.

Examples:
  make 2>&1 | relaymap build
  relaymap build errors.txt -o graph.json
  relaymap build errors.txt --build-dir ~/src/project --algorithm force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.buildDir, "build-dir", "d", "", "project directory for source scanning")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "layout algorithm: auto, layered, force")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "ID offset for discovered nodes")
	cmd.Flags().IntVar(&opts.context, "context", 0, "lines around the error to scan for references")
	cmd.Flags().BoolVar(&opts.noAnalyze, "no-analyze", false, "skip source scanning")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.persist, "store", false, "persist the graph in the configured store")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string, opts *buildOpts) error {
	ctx := cmd.Context()

	errorText, err := readErrorText(args)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runner, err := c.newRunner(ctx, opts.noCache, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		ErrorText:       errorText,
		BuildDir:        opts.buildDir,
		ContextLines:    opts.context,
		ReferenceOffset: opts.offset,
		NoAnalyze:       opts.noAnalyze,
		Refresh:         opts.refresh,
		Algorithm:       opts.algorithm,
		Logger:          c.Logger,
	}
	applyConfig(&pipeOpts, cfg)

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built graph from %d diagnostics", len(result.Diagnostics)))

	if opts.persist {
		if err := c.persistGraph(cmd, cfg, result); err != nil {
			return err
		}
	}

	if err := writeGraph(result.Graph, opts.output); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Wrote graph")
		printFile(opts.output)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.BuildHit)
		printNextStep("Inspect it", fmt.Sprintf("relaymap view %s", opts.output))
	}
	return nil
}

// persistGraph stores the result in MongoDB when a store is configured.
func (c *CLI) persistGraph(cmd *cobra.Command, cfg fileConfig, result *pipeline.Result) error {
	if cfg.Store.MongoURI == "" {
		return fmt.Errorf("no store configured: set store.mongo_uri in the config file")
	}

	ctx := cmd.Context()
	s, err := store.NewMongoStore(ctx, store.MongoConfig{
		URI:        cfg.Store.MongoURI,
		Database:   cfg.Store.Database,
		Collection: cfg.Store.Collection,
	})
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	doc := store.Document{
		Hash:      result.GraphHash,
		BatchID:   result.BatchID,
		CreatedAt: time.Now().UTC(),
		Graph:     graphio.FromGraph(result.Graph),
	}
	if err := s.Put(ctx, doc); err != nil {
		return err
	}
	printInfo("Stored graph %s", shortHash(result.GraphHash))
	return nil
}

// shortHash abbreviates a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// readErrorText reads compiler output from the file argument or stdin.
func readErrorText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeGraph serializes g as JSON to the specified path (or stdout if empty).
func writeGraph(g *relay.Graph, path string) error {
	if path == "" {
		return graphio.Write(g, os.Stdout)
	}
	return graphio.WriteFile(g, path)
}
