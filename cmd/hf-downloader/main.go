// Command hf-downloader lists and downloads Hugging Face repository files from the terminal.
package main

import (
	"os"

	"github.com/ytget/hf-downloader/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
