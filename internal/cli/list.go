package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/model"
)

func newListCmd(ro *RootOpts) *cobra.Command {
	var jsonOut bool
	var includes, excludes []string

	cmd := &cobra.Command{
		Use:   "list REPO",
		Short: "List the files of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := model.ParseRepoID(args[0])
			if err != nil {
				return err
			}

			files, err := hub.NewClient(ro.hubOptions()).ListFiles(cmd.Context(), repo)
			if err != nil {
				return err
			}

			sel := model.NewSelection(files)
			if err := applyFilters(sel, includes, excludes); err != nil {
				return err
			}
			picked := make(map[string]bool)
			for _, p := range sel.Selected() {
				picked[p] = true
			}
			var shown []model.RemoteFile
			for _, f := range files {
				if picked[f.Path] {
					shown = append(shown, f)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(shown)
			}

			rows := make([][]string, 0, len(shown))
			for _, f := range shown {
				rows = append(rows, []string{f.Path, humanize.IBytes(uint64(f.Size)), strconv.FormatBool(f.LFS)})
			}
			p := printer{w: out}
			p.header(fmt.Sprintf("%s@%s", repo, ro.Revision))
			fmt.Fprintln(out, newTable([]string{"Path", "Size", "LFS"}, rows).String())
			p.info(fmt.Sprintf("%d files, %s", len(shown), humanize.IBytes(uint64(sel.SelectedSize()))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the listing as JSON")
	cmd.Flags().StringArrayVarP(&includes, "include", "i", nil, "Only show paths matching a glob or /regex/ (repeatable)")
	cmd.Flags().StringArrayVarP(&excludes, "exclude", "e", nil, "Hide paths matching a glob or /regex/ (repeatable)")
	return cmd
}

// applyFilters narrows sel to the include patterns, then drops the exclude patterns
func applyFilters(sel *model.Selection, includes, excludes []string) error {
	if len(includes) > 0 {
		if err := sel.SelectNone(); err != nil {
			return err
		}
		for _, pattern := range includes {
			if _, err := sel.SelectMatching(pattern, true); err != nil {
				return err
			}
		}
	}
	for _, pattern := range excludes {
		if _, err := sel.SelectMatching(pattern, false); err != nil {
			return err
		}
	}
	return nil
}
