package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"media-catalog/internal/catalog"
	"media-catalog/internal/scan"
)

var scanOpts struct {
	extensions []string
	category   string
	maxDepth   int
	maxResults int
	quiet      bool
}

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Find files by extension and print their paths",
	Long: `Walks dir (default: the media root) and prints every file whose extension
matches --ext or --category, one path per line in discovery order. Progress
is reported on stderr. Ctrl+C cancels the walk and prints what was found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	flags := scanCmd.Flags()
	flags.StringSliceVarP(&scanOpts.extensions, "ext", "e", nil, "extensions to match (e.g. jpg,png)")
	flags.StringVarP(&scanOpts.category, "category", "c", "", "match every extension of a category (image, video, audio, document, zip)")
	flags.IntVar(&scanOpts.maxDepth, "max-depth", -1, "maximum directory depth below dir (-1 for unlimited)")
	flags.IntVar(&scanOpts.maxResults, "max-results", 0, "stop after this many matches (0 for unlimited)")
	flags.BoolVarP(&scanOpts.quiet, "quiet", "q", false, "suppress progress output")
}

func runScan(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newServices(config)
	if err != nil {
		return err
	}
	defer svc.close()

	exts, err := scanExtensions(svc.classifier, scanOpts.extensions, scanOpts.category)
	if err != nil {
		return err
	}

	root := config.MediaRoot
	if len(args) == 1 {
		if root, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}

	req := scan.Request{
		Root:       root,
		Extensions: exts,
		MaxDepth:   scan.Unlimited,
		MaxResults: scan.Unlimited,
	}
	if scanOpts.maxDepth >= 0 {
		req.MaxDepth = scanOpts.maxDepth
	}
	if scanOpts.maxResults > 0 {
		req.MaxResults = scanOpts.maxResults
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := svc.scans.Start(ctx, req)
	if err != nil {
		return err
	}

	res := drain(ctx, sess, cmd)
	for _, p := range res.Paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d matches in %v", res.State, len(res.Paths), res.Duration.Round(time.Millisecond))
	if res.SkippedDirs > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), ", %d directories skipped", res.SkippedDirs)
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	if res.State == scan.StateFailed {
		return res.Err
	}
	return nil
}

// drain reports progress until the session ends and returns its result.
func drain(ctx context.Context, sess *scan.Session, cmd *cobra.Command) scan.Result {
	events := sess.Events()
	for events != nil {
		select {
		case p, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !scanOpts.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "\r%d found, in %s", p.Total, p.CurrentDir)
			}
		case <-ctx.Done():
			sess.Cancel()
			ctx = context.Background()
		}
	}
	if !scanOpts.quiet {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	return <-sess.Result()
}

func scanExtensions(c *catalog.Classifier, exts []string, category string) (catalog.ExtensionSet, error) {
	set := catalog.NewExtensionSet(exts...)
	if category != "" {
		cat, ok := catalog.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", category)
		}
		for _, ext := range c.ExtensionsFor(cat) {
			set[ext] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no extensions given; use --ext or --category (%s)", strings.Join(categoryNames(), ", "))
	}
	return set, nil
}

func categoryNames() []string {
	return []string{
		string(catalog.CategoryImage),
		string(catalog.CategoryVideo),
		string(catalog.CategoryAudio),
		string(catalog.CategoryDocument),
		string(catalog.CategoryArchive),
	}
}
