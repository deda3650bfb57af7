package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/art0/internal/catalog"
)

func newStylesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the styles, resolutions and frames under the assets directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), catalog.Open(cfg.Assets))
		},
	}
}

func printCatalog(w io.Writer, cat *catalog.Catalog) error {
	styles, err := cat.Styles()
	if err != nil {
		return err
	}
	names, err := cat.StyleNames()
	if err != nil {
		return err
	}
	frames, err := cat.Frames()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "styles:")
	for _, name := range names {
		res := make([]string, 0, len(styles[name]))
		for _, r := range styles[name] {
			res = append(res, fmt.Sprint(r))
		}
		fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(res, ", "))
	}

	frameNames := make([]string, 0, len(frames))
	for name := range frames {
		frameNames = append(frameNames, name)
	}
	slices.Sort(frameNames)
	fmt.Fprintf(w, "frames: %s\n", strings.Join(frameNames, ", "))
	return nil
}
