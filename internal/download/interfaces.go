package download

import (
	"context"

	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/model"
)

// Orchestrator defines the interface the presentation layers drive.
type Orchestrator interface {
	SetUpdateCallback(func(Update))
	SetLister(hub.Lister)
	LoadRepository(ctx context.Context, repo model.RepoID) error
	Selection() *model.Selection
	Repo() model.RepoID
	StartDownload(opts StartOptions) error
	Pause() error
	Resume() error
	Stop() error
	Reset() error
	Wait(ctx context.Context) error
	Job() (model.DownloadJob, bool)
	State() model.SessionState
}

var _ Orchestrator = (*Service)(nil)
