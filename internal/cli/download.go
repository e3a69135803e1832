package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytget/hf-downloader/internal/download"
	"github.com/ytget/hf-downloader/internal/engine"
	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/manifest"
	"github.com/ytget/hf-downloader/internal/model"
	"github.com/ytget/hf-downloader/internal/platform"
)

type downloadOpts struct {
	Output        string
	Includes      []string
	Excludes      []string
	Limit         string
	Selection     string
	SaveSelection string
	EnginePath    string
	Connections   int
	SoftPause     bool
	DryRun        bool
}

// newRunner returns nil so the service locates aria2c on start
var newRunner = func(path string) engine.Runner { return nil }

func newDownloadCmd(ro *RootOpts) *cobra.Command {
	opts := &downloadOpts{}

	cmd := &cobra.Command{
		Use:   "download REPO",
		Short: "Download selected files of a repository with aria2c",
		Long: `Download files of a Hugging Face repository into OUTPUT/<repo name>.
Ctrl+C stops the running transfer; rerunning the same command continues partial files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := model.ParseRepoID(args[0])
			if err != nil {
				return err
			}
			if opts.Output == "" {
				dir, err := platform.GetHomeDownloadsDir()
				if err != nil {
					return err
				}
				opts.Output = dir
			}
			return runDownload(cmd.Context(), cmd.OutOrStdout(), ro, opts, repo)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Destination directory (default: ~/Downloads)")
	cmd.Flags().StringArrayVarP(&opts.Includes, "include", "i", nil, "Only download paths matching a glob or /regex/ (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Excludes, "exclude", "e", nil, "Skip paths matching a glob or /regex/ (repeatable)")
	cmd.Flags().StringVarP(&opts.Limit, "limit", "l", "", "Per-file rate limit such as 500K or 2M (empty = unlimited)")
	cmd.Flags().StringVar(&opts.Selection, "selection", "", "Select exactly the files of a saved selection manifest")
	cmd.Flags().StringVar(&opts.SaveSelection, "save-selection", "", "Write the final selection to a manifest file")
	cmd.Flags().StringVar(&opts.EnginePath, "aria2c", "", "Path to the aria2c binary")
	cmd.Flags().IntVarP(&opts.Connections, "connections", "c", engine.DefaultConnections, "Connections per file (1-16)")
	cmd.Flags().BoolVar(&opts.SoftPause, "soft-pause", false, "Pause by stopping aria2c instead of suspending it")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the selection without downloading")
	return cmd
}

func runDownload(ctx context.Context, out io.Writer, ro *RootOpts, opts *downloadOpts, repo model.RepoID) error {
	p := printer{w: out}
	client := hub.NewClient(ro.hubOptions())
	svc := download.NewService(download.Options{
		Lister:    client,
		Runner:    newRunner(opts.EnginePath),
		SoftPause: opts.SoftPause,
	})

	reporter := newProgressReporter(p)
	svc.SetUpdateCallback(reporter.handle)

	if err := svc.LoadRepository(ctx, repo); err != nil {
		return err
	}

	sel := svc.Selection()
	if opts.Selection != "" {
		m, err := manifest.Load(opts.Selection)
		if err != nil {
			return err
		}
		missing, err := m.Apply(repo, sel)
		if err != nil {
			return err
		}
		for _, path := range missing {
			p.warning(fmt.Sprintf("not in listing: %s", path))
		}
	}
	if err := applyFilters(sel, opts.Includes, opts.Excludes); err != nil {
		return err
	}

	if opts.SaveSelection != "" {
		m := manifest.FromSelection(repo, ro.Revision, ro.Dataset, sel)
		if err := manifest.Save(opts.SaveSelection, m); err != nil {
			return err
		}
		p.info(fmt.Sprintf("Selection saved to %s", opts.SaveSelection))
	}

	p.info(fmt.Sprintf("%d of %d files selected (%s)", sel.SelectedCount(), sel.Count(), humanize.IBytes(uint64(sel.SelectedSize()))))
	if opts.DryRun {
		for _, path := range sel.Selected() {
			fmt.Fprintf(out, "  %s %s\n", styleSymbols["arrow"], path)
		}
		return nil
	}

	err := svc.StartDownload(download.StartOptions{
		Destination: opts.Output,
		RateLimit:   opts.Limit,
		Connections: opts.Connections,
		Token:       client.Token(),
		EnginePath:  opts.EnginePath,
	})
	if err != nil {
		return err
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			_ = svc.Stop()
		case <-reporter.done():
		}
	}()

	err = svc.Wait(context.Background())
	reporter.finish()
	<-stopped

	if ctx.Err() != nil && err == nil {
		return fmt.Errorf("download interrupted: %w", ctx.Err())
	}
	return err
}

// progressReporter prints log lines and redraws a progress line in place
type progressReporter struct {
	p        printer
	mu       sync.Mutex
	barShown bool
	closed   chan struct{}
	once     sync.Once
}

func newProgressReporter(p printer) *progressReporter {
	return &progressReporter{p: p, closed: make(chan struct{})}
}

func (r *progressReporter) done() <-chan struct{} {
	return r.closed
}

func (r *progressReporter) finish() {
	r.once.Do(func() { close(r.closed) })
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *progressReporter) clearLocked() {
	if r.barShown {
		fmt.Fprintln(r.p.w)
		r.barShown = false
	}
}

func (r *progressReporter) handle(u download.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch u.Kind {
	case download.UpdateProgress:
		if u.Job == nil {
			return
		}
		fmt.Fprintf(r.p.w, "\r%s", progressLine(*u.Job))
		r.barShown = true
	case download.UpdateLog:
		// per-file progress is already drawn by the bar
		if strings.HasPrefix(u.Message, "Downloading: ") {
			return
		}
		r.clearLocked()
		switch {
		case u.Err != nil:
			r.p.error(u.Message)
		case u.State == model.StateFinished:
			r.p.success(u.Message)
		case u.State == model.StatePaused || u.State == model.StateStopped:
			r.p.warning(u.Message)
		default:
			r.p.pending(u.Message)
		}
	}
}

func progressLine(job model.DownloadJob) string {
	current := min(job.Completed()+1, job.Total())
	line := fmt.Sprintf("%s [%d/%d] %s", progressBar(job.Percent, 30), current, job.Total(), job.CurrentFile)
	if job.Speed != "" {
		line += " " + job.Speed
	}
	if job.ETASec >= 0 {
		line += " ETA " + job.GetETAString()
	}
	return line
}

// ExitCode maps an error returned by Execute to a process exit status
func ExitCode(err error) int {
	var exitErr *engine.EngineExitError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.As(err, &exitErr) && exitErr.Code > 0:
		return exitErr.Code
	default:
		return 1
	}
}
