package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"media-catalog/internal/listing"
)

var lsDirsOnly bool

var lsCmd = &cobra.Command{
	Use:   "ls [dir]",
	Short: "List a directory with file categories",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsDirsOnly, "dirs", "d", false, "list subdirectories only")
}

func runLs(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := newServices(config)
	if err != nil {
		return err
	}
	defer svc.close()

	dir := config.MediaRoot
	if len(args) == 1 {
		if dir, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if lsDirsOnly {
		dirs, err := listing.Directories(svc.lister, dir)
		if err != nil {
			return err
		}
		for _, d := range dirs {
			fmt.Fprintln(w, d.Name+"/")
		}
		return nil
	}

	records, err := listing.ListDirectory(svc.lister, svc.classifier, dir)
	if err != nil {
		return err
	}
	for _, r := range records {
		name := r.Name
		if r.IsDir {
			name += "/"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Category, r.ReadableSize, r.ModTime.Format(time.DateTime), name)
	}
	return nil
}
