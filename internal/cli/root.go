// Package cli implements the headless hf-downloader command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/logging"
)

// RootOpts holds global CLI options
type RootOpts struct {
	Token    string
	Endpoint string
	Revision string
	Dataset  bool
	Debug    bool
}

func (ro *RootOpts) hubOptions() hub.Options {
	return hub.Options{
		Endpoint: ro.Endpoint,
		Token:    ro.Token,
		Revision: ro.Revision,
		Dataset:  ro.Dataset,
	}
}

// Execute runs the CLI with the given version string
func Execute(version string) error {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := newRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		printer{w: os.Stderr}.error(err.Error())
		return err
	}
	return nil
}

func newRootCmd(version string) *cobra.Command {
	ro := &RootOpts{}

	root := &cobra.Command{
		Use:           "hf-downloader",
		Short:         "List and download Hugging Face repository files through aria2c",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(ro.Debug, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&ro.Token, "token", "t", "", "Hugging Face access token (also reads HF_TOKEN env)")
	root.PersistentFlags().StringVar(&ro.Endpoint, "endpoint", "", "Hub endpoint for mirrors (also reads HF_ENDPOINT env)")
	root.PersistentFlags().StringVarP(&ro.Revision, "revision", "r", hub.DefaultRevision, "Branch, tag or commit")
	root.PersistentFlags().BoolVar(&ro.Dataset, "dataset", false, "Treat REPO as a dataset")
	root.PersistentFlags().BoolVar(&ro.Debug, "debug", false, "Enable debug logging")

	root.AddCommand(newListCmd(ro))
	root.AddCommand(newDownloadCmd(ro))
	root.AddCommand(newVersionCmd(version))
	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hf-downloader %s\n", version)
		},
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}
