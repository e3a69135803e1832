package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/hf-downloader/internal/engine"
	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/logging"
	"github.com/ytget/hf-downloader/internal/model"
	"github.com/ytget/hf-downloader/internal/platform"
)

// UpdateKind tells subscribers what changed
type UpdateKind int

const (
	UpdateState UpdateKind = iota
	UpdateListing
	UpdateProgress
	UpdateLog
)

// Update is delivered to the update callback on every state, listing, progress or log change
type Update struct {
	Kind    UpdateKind
	State   model.SessionState
	Job     *model.DownloadJob // snapshot, nil when no job exists
	Message string
	Err     error
}

// Options configures a Service
type Options struct {
	Lister    hub.Lister
	Runner    engine.Runner // nil locates aria2c on every start
	SoftPause bool          // relaunch with --continue instead of suspending the process
}

// StartOptions are the per-job parameters of StartDownload
type StartOptions struct {
	Destination string
	RateLimit   string
	Connections int
	Token       string
	EnginePath  string
}

// Service owns the single download job and its session state
type Service struct {
	mu        sync.Mutex
	state     model.SessionState
	lister    hub.Lister
	runner    engine.Runner
	softPause bool

	repo      model.RepoID
	files     map[string]model.RemoteFile
	selection *model.Selection

	job        *model.DownloadJob
	proc       engine.Process
	suspended  bool // proc received a suspend signal
	softPaused bool // proc was terminated to pause and must be relaunched
	stopping   bool
	wake       chan struct{}
	cancel     context.CancelFunc
	done       chan struct{}
	runErr     error

	onUpdate func(Update)
	log      zerolog.Logger
}

// NewService creates a new download service
func NewService(opts Options) *Service {
	lister := opts.Lister
	if lister == nil {
		lister = hub.NewClient(hub.Options{})
	}
	return &Service{
		state:     model.StateIdle,
		lister:    lister,
		runner:    opts.Runner,
		softPause: opts.SoftPause,
		log:       logging.Component("download"),
	}
}

// SetUpdateCallback sets the callback function for updates
func (s *Service) SetUpdateCallback(callback func(Update)) {
	s.mu.Lock()
	s.onUpdate = callback
	s.mu.Unlock()
}

// SetLister replaces the repository lister used by the next LoadRepository
func (s *Service) SetLister(lister hub.Lister) {
	s.mu.Lock()
	s.lister = lister
	s.mu.Unlock()
}

// State returns the current session state
func (s *Service) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Selection returns the live selection of the loaded repository, nil before a listing
func (s *Service) Selection() *model.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Repo returns the repository of the current listing
func (s *Service) Repo() model.RepoID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo
}

// Job returns a snapshot of the current job
func (s *Service) Job() (model.DownloadJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return model.DownloadJob{}, false
	}
	return s.job.Snapshot(), true
}

// LoadRepository lists repo and replaces the current listing and selection
func (s *Service) LoadRepository(ctx context.Context, repo model.RepoID) error {
	s.mu.Lock()
	if s.state.IsActive() || s.state == model.StateListing {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot load a repository while %s", model.ErrInvalidTransition, state)
	}
	s.resetLocked()
	if err := s.setStateLocked(model.StateListing); err != nil {
		s.mu.Unlock()
		return err
	}
	s.repo = repo
	s.files = nil
	s.selection = nil
	lister := s.lister
	s.mu.Unlock()

	if lister == nil {
		return s.listingFailed(repo, errors.New("no repository lister configured"))
	}

	s.emit(
		Update{Kind: UpdateState, State: model.StateListing},
		Update{Kind: UpdateLog, State: model.StateListing, Message: fmt.Sprintf("Loading file list for %s...", repo)},
	)

	files, err := lister.ListFiles(ctx, repo)

	if err != nil {
		return s.listingFailed(repo, err)
	}

	s.mu.Lock()
	s.files = make(map[string]model.RemoteFile, len(files))
	for _, f := range files {
		s.files[f.Path] = f
	}
	s.selection = model.NewSelection(files)
	_ = s.setStateLocked(model.StateReady)
	count := s.selection.Count()
	s.mu.Unlock()

	s.log.Info().Str("op", "download/load").Str("repo", repo.String()).Int("files", count).Msg("Repository listed")
	s.emit(
		Update{Kind: UpdateState, State: model.StateReady},
		Update{Kind: UpdateListing, State: model.StateReady},
		Update{Kind: UpdateLog, State: model.StateReady, Message: fmt.Sprintf("Found %d files", count)},
	)
	return nil
}

func (s *Service) listingFailed(repo model.RepoID, err error) error {
	s.mu.Lock()
	_ = s.setStateLocked(model.StateIdle)
	s.mu.Unlock()

	s.log.Error().Err(err).Str("op", "download/load").Str("repo", repo.String()).Msg("Listing failed")
	s.emit(
		Update{Kind: UpdateState, State: model.StateIdle, Err: err},
		Update{Kind: UpdateLog, State: model.StateIdle, Message: "Error: " + err.Error(), Err: err},
	)
	return err
}

// StartDownload launches the job over the currently selected files
func (s *Service) StartDownload(opts StartOptions) error {
	s.mu.Lock()
	run, updates, err := s.startLocked(opts)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.emit(updates...)
	go run()
	return nil
}

func (s *Service) startLocked(opts StartOptions) (func(), []Update, error) {
	if s.state.IsFinished() {
		s.resetLocked()
		s.rearmLocked()
	}

	sel := s.selection
	if sel == nil || sel.Count() == 0 || sel.SelectedCount() == 0 {
		if s.state == model.StateReady || s.state == model.StateIdle {
			return nil, nil, ErrNothingSelected
		}
	}
	if s.state != model.StateReady {
		return nil, nil, fmt.Errorf("%w: cannot start a download while %s", model.ErrInvalidTransition, s.state)
	}

	rate, err := NormalizeRateLimit(opts.RateLimit)
	if err != nil {
		return nil, nil, err
	}

	dest := strings.TrimSpace(opts.Destination)
	if dest == "" {
		return nil, nil, &FilesystemError{Op: "resolve", Path: "destination", Err: errors.New("no directory chosen")}
	}

	runner := s.runner
	if runner == nil {
		path, err := engine.Locate(opts.EnginePath)
		if err != nil {
			return nil, nil, &LaunchError{Err: err}
		}
		runner = engine.NewExecRunner(path)
	}

	job := model.NewDownloadJob(s.repo, dest, rate, sel.Selected())
	if err := platform.CreateDirectoryIfNotExists(job.Folder); err != nil {
		return nil, nil, &FilesystemError{Op: "mkdir", Path: job.Folder, Err: err}
	}

	s.job = job
	if err := s.setStateLocked(model.StateDownloading); err != nil {
		s.job = nil
		return nil, nil, err
	}
	sel.Lock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.wake = make(chan struct{}, 1)
	s.stopping = false
	s.softPaused = false
	s.suspended = false
	s.runErr = nil

	template := engine.Request{
		Connections: opts.Connections,
		RateLimit:   rate,
		Token:       opts.Token,
	}

	s.log.Info().Str("op", "download/start").Str("job", job.ID).Str("repo", job.Repo.String()).
		Int("files", job.Total()).Str("folder", job.Folder).Msg("Starting download")

	snap := job.Snapshot()
	msg := fmt.Sprintf("Starting download of %d files into %s", job.Total(), job.Folder)
	if rate != "" {
		msg += fmt.Sprintf(" (limit %s/s)", rate)
	}
	updates := []Update{
		{Kind: UpdateState, State: model.StateDownloading, Job: &snap},
		{Kind: UpdateLog, State: model.StateDownloading, Job: &snap, Message: msg},
	}
	return func() { s.run(ctx, runner, job, template, done) }, updates, nil
}

// Pause suspends the engine, or stops it for a later --continue relaunch where suspension is unavailable
func (s *Service) Pause() error {
	s.mu.Lock()
	if err := s.setStateLocked(model.StatePaused); err != nil {
		s.mu.Unlock()
		return err
	}

	soft := s.softPause
	if proc := s.proc; proc != nil {
		if !soft {
			if err := proc.Suspend(); err != nil {
				if !errors.Is(err, engine.ErrSuspendUnsupported) {
					s.log.Warn().Err(err).Str("op", "download/pause").Msg("Suspend failed, falling back to relaunch")
				}
				soft = true
			} else {
				s.suspended = true
			}
		}
		if soft {
			s.softPaused = true
			_ = proc.Terminate()
		}
	}
	snap := s.job.Snapshot()
	s.mu.Unlock()

	msg := "Download paused"
	if soft {
		msg = "Download paused, the current file will continue from its partial data on resume"
	}
	s.emit(
		Update{Kind: UpdateState, State: model.StatePaused, Job: &snap},
		Update{Kind: UpdateLog, State: model.StatePaused, Job: &snap, Message: msg},
	)
	return nil
}

// Resume continues a paused job
func (s *Service) Resume() error {
	s.mu.Lock()
	if s.state != model.StatePaused {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot resume while %s", model.ErrInvalidTransition, state)
	}
	if s.suspended && s.proc != nil {
		if err := s.proc.Continue(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("resume engine: %w", err)
		}
	}
	s.suspended = false
	_ = s.setStateLocked(model.StateDownloading)
	s.signalLocked()
	snap := s.job.Snapshot()
	s.mu.Unlock()

	s.emit(
		Update{Kind: UpdateState, State: model.StateDownloading, Job: &snap},
		Update{Kind: UpdateLog, State: model.StateDownloading, Job: &snap, Message: "Download resumed"},
	)
	return nil
}

// Stop terminates the engine and blocks until the job has wound down.
// The session passes through Stopped and Idle; State() then returns Ready
// when a listing is retained, so the same selection can be started again.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.state.IsActive() {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: nothing to stop while %s", model.ErrInvalidTransition, state)
	}
	s.stopping = true
	proc := s.proc
	cancel := s.cancel
	done := s.done
	s.signalLocked()
	s.mu.Unlock()

	s.emit(Update{Kind: UpdateLog, State: s.State(), Message: "Stopping download..."})

	if proc != nil {
		_ = proc.Terminate()
	}
	cancel()
	<-done
	return nil
}

// Reset returns a finished, failed or stopped session to Idle, then Ready when a listing is kept
func (s *Service) Reset() error {
	s.mu.Lock()
	switch {
	case s.state.IsFinished():
		s.resetLocked()
		s.rearmLocked()
	case s.state == model.StateIdle || s.state == model.StateReady:
	default:
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot reset while %s", model.ErrInvalidTransition, state)
	}
	state := s.state
	s.mu.Unlock()

	s.emit(Update{Kind: UpdateState, State: state})
	return nil
}

// Wait blocks until the current job's run loop exits and returns its error
func (s *Service) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

// run hands every file of the job to the engine in order
func (s *Service) run(ctx context.Context, runner engine.Runner, job *model.DownloadJob, template engine.Request, done chan struct{}) {
	defer close(done)

	var runErr error
loop:
	for {
		s.mu.Lock()
		if s.stopping {
			s.mu.Unlock()
			break
		}
		if s.state == model.StatePaused {
			wake := s.wake
			s.mu.Unlock()
			select {
			case <-wake:
			case <-ctx.Done():
			}
			continue
		}
		if job.Done() {
			s.mu.Unlock()
			break
		}

		file := job.Files[job.Current]
		req, err := s.requestLocked(job, file, template)
		if err != nil {
			runErr = err
			s.mu.Unlock()
			break
		}

		proc, err := runner.Start(ctx, req)
		if err != nil {
			runErr = &LaunchError{Path: file, Err: err}
			s.mu.Unlock()
			break
		}
		s.proc = proc
		job.CurrentFile = file
		snap := job.Snapshot()
		s.mu.Unlock()

		s.log.Debug().Str("op", "download/run").Str("job", job.ID).Str("file", file).Int("index", snap.Current).Msg("Engine launched")
		s.emit(Update{Kind: UpdateProgress, State: snap.Status, Job: &snap})

		for line := range proc.Lines() {
			s.handleLine(job, line)
		}
		waitErr := proc.Wait()

		s.mu.Lock()
		s.proc = nil
		s.suspended = false
		switch {
		case s.stopping:
			s.mu.Unlock()
			break loop
		case s.softPaused && errors.Is(waitErr, engine.ErrTerminated):
			s.softPaused = false
			s.mu.Unlock()
			continue
		case waitErr != nil:
			runErr = waitErr
			s.mu.Unlock()
			break loop
		}

		s.softPaused = false
		job.CompleteFile()
		snap = job.Snapshot()
		s.mu.Unlock()

		s.emit(
			Update{Kind: UpdateProgress, State: snap.Status, Job: &snap},
			Update{Kind: UpdateLog, State: snap.Status, Job: &snap, Message: fmt.Sprintf("Downloading: %s (%d%%)", file, snap.Percent)},
		)
	}

	s.finish(job, runErr)
}

// requestLocked prepares the target directory of file and the engine request for it
func (s *Service) requestLocked(job *model.DownloadJob, file string, template engine.Request) (engine.Request, error) {
	dir, name, err := platform.SplitTarget(job.Folder, file)
	if err != nil {
		return engine.Request{}, &FilesystemError{Op: "resolve", Path: file, Err: err}
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return engine.Request{}, &FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}

	req := template
	req.File = file
	req.URL = s.files[file].URL
	req.Dir = dir
	req.Out = name
	return req, nil
}

func (s *Service) handleLine(job *model.DownloadJob, line string) {
	if p, ok := engine.ParseProgress(line); ok {
		s.mu.Lock()
		if p.Percent >= 0 {
			job.SetFileProgress(p.Percent)
		}
		job.Speed = p.Speed
		job.ETASec = p.ETASec
		snap := job.Snapshot()
		s.mu.Unlock()
		s.emit(Update{Kind: UpdateProgress, State: snap.Status, Job: &snap})
		return
	}

	if engine.IsDiagnostic(line) {
		s.log.Warn().Str("op", "download/engine").Str("job", job.ID).Msg(line)
		s.emit(Update{Kind: UpdateLog, State: s.State(), Message: line})
		return
	}
	s.log.Debug().Str("op", "download/engine").Msg(line)
}

// finish moves the session to its terminal state once the run loop is done
func (s *Service) finish(job *model.DownloadJob, runErr error) {
	s.mu.Lock()
	job.FinishedAt = time.Now()
	s.proc = nil
	if s.cancel != nil {
		s.cancel()
	}
	if s.selection != nil {
		s.selection.Unlock()
	}

	var updates []Update
	switch {
	case s.stopping:
		_ = s.setStateLocked(model.StateStopped)
		snap := job.Snapshot()
		updates = append(updates, Update{Kind: UpdateState, State: model.StateStopped, Job: &snap})
		s.resetLocked()
		updates = append(updates, Update{Kind: UpdateState, State: model.StateIdle})
		s.rearmLocked()
		if s.state == model.StateReady {
			updates = append(updates, Update{Kind: UpdateState, State: model.StateReady})
		}
		updates = append(updates, Update{Kind: UpdateLog, State: s.state, Message: "Download stopped"})
		s.log.Info().Str("op", "download/finish").Str("job", job.ID).Msg("Download stopped")

	case runErr != nil:
		job.LastError = runErr.Error()
		s.runErr = runErr
		_ = s.setStateLocked(model.StateFailed)
		snap := job.Snapshot()
		updates = append(updates,
			Update{Kind: UpdateState, State: model.StateFailed, Job: &snap, Err: runErr},
			Update{Kind: UpdateLog, State: model.StateFailed, Job: &snap, Message: "Error: " + runErr.Error(), Err: runErr},
		)
		s.log.Error().Err(runErr).Str("op", "download/finish").Str("job", job.ID).Msg("Download failed")

	default:
		job.Percent = 100
		_ = s.setStateLocked(model.StateFinished)
		snap := job.Snapshot()
		updates = append(updates,
			Update{Kind: UpdateState, State: model.StateFinished, Job: &snap},
			Update{Kind: UpdateLog, State: model.StateFinished, Job: &snap,
				Message: fmt.Sprintf("All downloads complete: %d files in %s", job.Total(), job.Folder)},
		)
		s.log.Info().Str("op", "download/finish").Str("job", job.ID).Dur("took", job.FinishedAt.Sub(job.StartedAt)).Msg("Download finished")
	}
	s.mu.Unlock()

	s.emit(updates...)
}

// setStateLocked applies a checked transition and mirrors it on the job
func (s *Service) setStateLocked(next model.SessionState) error {
	state, err := s.state.Transition(next)
	if err != nil {
		return err
	}
	s.state = state
	if s.job != nil {
		s.job.Status = state
	}
	return nil
}

// resetLocked moves a terminal session to Idle and drops its job
func (s *Service) resetLocked() {
	if !s.state.IsFinished() {
		return
	}
	_ = s.setStateLocked(model.StateIdle)
	s.job = nil
	s.stopping = false
	s.runErr = nil
	if s.selection != nil {
		s.selection.Unlock()
	}
}

// rearmLocked returns Idle to Ready when a non-empty listing is retained
func (s *Service) rearmLocked() {
	if s.state == model.StateIdle && s.selection != nil && s.selection.Count() > 0 {
		_ = s.setStateLocked(model.StateReady)
	}
}

func (s *Service) signalLocked() {
	if s.wake == nil {
		return
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// emit calls the update callback if set
func (s *Service) emit(updates ...Update) {
	s.mu.Lock()
	callback := s.onUpdate
	s.mu.Unlock()
	if callback == nil {
		return
	}
	for _, u := range updates {
		callback(u)
	}
}
