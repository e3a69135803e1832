package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog/log"

	"github.com/ytget/hf-downloader/internal/download"
	"github.com/ytget/hf-downloader/internal/logging"
	"github.com/ytget/hf-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.hf-downloader"
	AppName = "HF Downloader"
)

func main() {
	logging.Init(os.Getenv("HF_DOWNLOADER_DEBUG") != "", nil)
	log.Info().Str("version", version).Msg("HF Downloader starting")

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	// the lister is configured per load from the saved Hub settings
	svc := download.NewService(download.Options{})

	ui.NewRootUI(myWindow, myApp, svc)

	myWindow.ShowAndRun()
}
