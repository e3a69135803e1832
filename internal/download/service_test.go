package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ytget/hf-downloader/internal/engine"
	"github.com/ytget/hf-downloader/internal/hub"
	"github.com/ytget/hf-downloader/internal/model"
)

const testTimeout = 5 * time.Second

type fakeLister struct {
	files []model.RemoteFile
	err   error
}

func (l *fakeLister) ListFiles(ctx context.Context, repo model.RepoID) ([]model.RemoteFile, error) {
	return l.files, l.err
}

type fakeProcess struct {
	req        engine.Request
	lines      chan string
	done       chan struct{}
	once       sync.Once
	err        error
	suspendErr error

	mu         sync.Mutex
	suspends   int
	continues  int
	terminates int
}

func newFakeProcess(req engine.Request, suspendErr error) *fakeProcess {
	return &fakeProcess{
		req:        req,
		lines:      make(chan string, 16),
		done:       make(chan struct{}),
		suspendErr: suspendErr,
	}
}

func (p *fakeProcess) exit(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.lines)
		close(p.done)
	})
}

func (p *fakeProcess) Lines() <-chan string { return p.lines }

func (p *fakeProcess) Wait() error {
	<-p.done
	return p.err
}

func (p *fakeProcess) Suspend() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suspendErr != nil {
		return p.suspendErr
	}
	p.suspends++
	return nil
}

func (p *fakeProcess) Continue() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suspendErr != nil {
		return p.suspendErr
	}
	p.continues++
	return nil
}

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminates++
	p.mu.Unlock()
	p.exit(engine.ErrTerminated)
	return nil
}

func (p *fakeProcess) counts() (suspends, continues, terminates int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suspends, p.continues, p.terminates
}

// fakeRunner records every request; in auto mode processes finish by themselves
type fakeRunner struct {
	auto       bool
	startErr   error
	suspendErr error

	mu       sync.Mutex
	requests []engine.Request
	started  chan *fakeProcess
}

func newFakeRunner(auto bool) *fakeRunner {
	return &fakeRunner{auto: auto, started: make(chan *fakeProcess, 16)}
}

func (r *fakeRunner) Start(ctx context.Context, req engine.Request) (engine.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.requests = append(r.requests, req)
	p := newFakeProcess(req, r.suspendErr)
	if r.auto {
		p.lines <- "[#aa 512KiB/1.0MiB(50%) CN:16 DL:1MiB ETA:1s]"
		p.exit(nil)
		return p, nil
	}
	r.started <- p
	return p, nil
}

func (r *fakeRunner) files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, req := range r.requests {
		out = append(out, req.File)
	}
	return out
}

func (r *fakeRunner) next(t *testing.T) *fakeProcess {
	t.Helper()
	select {
	case p := <-r.started:
		return p
	case <-time.After(testTimeout):
		t.Fatal("engine was not started")
		return nil
	}
}

func (r *fakeRunner) expectIdle(t *testing.T) {
	t.Helper()
	select {
	case p := <-r.started:
		t.Fatalf("unexpected engine start for %s", p.req.File)
	case <-time.After(100 * time.Millisecond):
	}
}

// stateRecorder collects state updates
type stateRecorder struct {
	mu     sync.Mutex
	states []model.SessionState
	logs   []string
}

func (r *stateRecorder) callback(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch u.Kind {
	case UpdateState:
		r.states = append(r.states, u.State)
	case UpdateLog:
		r.logs = append(r.logs, u.Message)
	}
}

func (r *stateRecorder) seen(states ...model.SessionState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := 0
	for _, s := range r.states {
		if i < len(states) && s == states[i] {
			i++
		}
	}
	return i == len(states)
}

func listing() []model.RemoteFile {
	return []model.RemoteFile{
		{Path: "config.json", Size: 10, URL: "https://hf.test/org/tiny/resolve/main/config.json"},
		{Path: "model.safetensors", Size: 1000, URL: "https://hf.test/org/tiny/resolve/main/model.safetensors"},
		{Path: "onnx/model.onnx", Size: 500, URL: "https://hf.test/org/tiny/resolve/main/onnx/model.onnx"},
		{Path: "README.md", Size: 5, URL: "https://hf.test/org/tiny/resolve/main/README.md"},
	}
}

func newTestService(t *testing.T, runner *fakeRunner, files []model.RemoteFile, soft bool) (*Service, *stateRecorder) {
	t.Helper()
	s := NewService(Options{Lister: &fakeLister{files: files}, Runner: runner, SoftPause: soft})
	rec := &stateRecorder{}
	s.SetUpdateCallback(rec.callback)
	if err := s.LoadRepository(context.Background(), "org/tiny"); err != nil {
		t.Fatalf("LoadRepository() error = %v", err)
	}
	return s, rec
}

func waitJob(t *testing.T, s *Service) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	err := s.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("job did not finish")
	}
	return err
}

func TestService_ZeroFilesListed(t *testing.T) {
	runner := newFakeRunner(true)
	s, _ := newTestService(t, runner, nil, false)

	if s.State() != model.StateReady {
		t.Fatalf("State() = %s, expected %s", s.State(), model.StateReady)
	}
	err := s.StartDownload(StartOptions{Destination: t.TempDir()})
	if !errors.Is(err, ErrNothingSelected) {
		t.Errorf("StartDownload() error = %v, expected ErrNothingSelected", err)
	}
	if len(runner.files()) != 0 {
		t.Errorf("engine was started for %v", runner.files())
	}
}

func TestService_NothingSelected(t *testing.T) {
	s, _ := newTestService(t, newFakeRunner(true), listing(), false)
	_ = s.Selection().SelectNone()

	if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("StartDownload() error = %v, expected ErrNothingSelected", err)
	}

	fresh := NewService(Options{Lister: &fakeLister{}, Runner: newFakeRunner(true)})
	if err := fresh.StartDownload(StartOptions{Destination: t.TempDir()}); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("StartDownload() without listing error = %v, expected ErrNothingSelected", err)
	}
}

func TestService_OnlySelectedFilesReachEngine(t *testing.T) {
	runner := newFakeRunner(true)
	s, rec := newTestService(t, runner, listing(), false)

	sel := s.Selection()
	_ = sel.Set("model.safetensors", false)
	_ = sel.Set("README.md", false)

	dest := t.TempDir()
	if err := s.StartDownload(StartOptions{Destination: dest, RateLimit: "2m", Connections: 8, Token: "hf_x"}); err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	if err := waitJob(t, s); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if got, want := runner.files(), []string{"config.json", "onnx/model.onnx"}; !reflect.DeepEqual(got, want) {
		t.Errorf("engine files = %v, expected %v", got, want)
	}

	folder := filepath.Join(dest, "tiny")
	runner.mu.Lock()
	last := runner.requests[1]
	runner.mu.Unlock()
	if last.Dir != filepath.Join(folder, "onnx") || last.Out != "model.onnx" {
		t.Errorf("request Dir/Out = %s, %s", last.Dir, last.Out)
	}
	if last.URL != "https://hf.test/org/tiny/resolve/main/onnx/model.onnx" {
		t.Errorf("request URL = %s", last.URL)
	}
	if last.RateLimit != "2M" || last.Connections != 8 || last.Token != "hf_x" {
		t.Errorf("request options = %+v", last)
	}
	if _, err := os.Stat(filepath.Join(folder, "onnx")); err != nil {
		t.Errorf("nested directory not created: %v", err)
	}

	if s.State() != model.StateFinished {
		t.Errorf("State() = %s, expected %s", s.State(), model.StateFinished)
	}
	job, ok := s.Job()
	if !ok || job.Percent != 100 || job.Status != model.StateFinished {
		t.Errorf("Job() = %+v, %v", job, ok)
	}
	if sel.Locked() {
		t.Error("selection still locked after the job finished")
	}
	if !rec.seen(model.StateListing, model.StateReady, model.StateDownloading, model.StateFinished) {
		t.Errorf("state sequence = %v", rec.states)
	}
}

func TestService_SelectionLockedWhileActive(t *testing.T) {
	runner := newFakeRunner(false)
	s, _ := newTestService(t, runner, listing(), false)

	if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	p := runner.next(t)

	if err := s.Selection().Set("config.json", false); !errors.Is(err, model.ErrSelectionLocked) {
		t.Errorf("Set() during job error = %v, expected ErrSelectionLocked", err)
	}
	if err := s.LoadRepository(context.Background(), "org/other"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("LoadRepository() during job error = %v, expected ErrInvalidTransition", err)
	}
	if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("second StartDownload() error = %v, expected ErrInvalidTransition", err)
	}

	p.exit(nil)
	for i := 0; i < 3; i++ {
		runner.next(t).exit(nil)
	}
	if err := waitJob(t, s); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestService_PauseResume(t *testing.T) {
	tests := []struct {
		name       string
		soft       bool
		suspendErr error
		relaunch   bool
	}{
		{name: "signal", relaunch: false},
		{name: "soft pause option", soft: true, relaunch: true},
		{name: "suspend unsupported", suspendErr: engine.ErrSuspendUnsupported, relaunch: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runner := newFakeRunner(false)
			runner.suspendErr = test.suspendErr
			s, _ := newTestService(t, runner, listing(), test.soft)
			_ = s.Selection().Set("README.md", false)

			if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); err != nil {
				t.Fatalf("StartDownload() error = %v", err)
			}
			first := runner.next(t)

			if err := s.Pause(); err != nil {
				t.Fatalf("Pause() error = %v", err)
			}
			if s.State() != model.StatePaused {
				t.Fatalf("State() = %s, expected %s", s.State(), model.StatePaused)
			}
			if err := s.Pause(); !errors.Is(err, model.ErrInvalidTransition) {
				t.Errorf("second Pause() error = %v", err)
			}

			suspends, _, terminates := first.counts()
			if test.relaunch {
				if terminates != 1 {
					t.Errorf("soft pause terminated %d times, expected 1", terminates)
				}
				runner.expectIdle(t)
			} else if suspends != 1 || terminates != 0 {
				t.Errorf("suspends = %d, terminates = %d", suspends, terminates)
			}

			if err := s.Resume(); err != nil {
				t.Fatalf("Resume() error = %v", err)
			}
			if s.State() != model.StateDownloading {
				t.Errorf("State() = %s, expected %s", s.State(), model.StateDownloading)
			}

			current := first
			if test.relaunch {
				current = runner.next(t)
				if current.req.File != first.req.File {
					t.Errorf("relaunched %s, expected %s", current.req.File, first.req.File)
				}
			} else if _, continues, _ := first.counts(); continues != 1 {
				t.Errorf("continues = %d, expected 1", continues)
			}

			current.exit(nil)
			runner.next(t).exit(nil)
			runner.next(t).exit(nil)
			if err := waitJob(t, s); err != nil {
				t.Fatalf("Wait() error = %v", err)
			}

			want := []string{"config.json", "model.safetensors", "onnx/model.onnx"}
			if test.relaunch {
				want = append([]string{"config.json"}, want...)
			}
			if got := runner.files(); !reflect.DeepEqual(got, want) {
				t.Errorf("engine files = %v, expected %v", got, want)
			}
			if s.State() != model.StateFinished {
				t.Errorf("State() = %s, expected %s", s.State(), model.StateFinished)
			}
		})
	}
}

func TestService_StopTerminatesAndReturnsToIdle(t *testing.T) {
	for _, pauseFirst := range []bool{false, true} {
		runner := newFakeRunner(false)
		s, rec := newTestService(t, runner, listing(), false)

		if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); err != nil {
			t.Fatalf("StartDownload() error = %v", err)
		}
		p := runner.next(t)
		if pauseFirst {
			if err := s.Pause(); err != nil {
				t.Fatalf("Pause() error = %v", err)
			}
		}

		if err := s.Stop(); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}

		if _, _, terminates := p.counts(); terminates == 0 {
			t.Error("Stop() did not terminate the engine")
		}
		if !rec.seen(model.StateDownloading, model.StateStopped, model.StateIdle) {
			t.Errorf("state sequence = %v, expected Stopped then Idle", rec.states)
		}
		// the listing is kept so the session is re-armed
		if s.State() != model.StateReady {
			t.Errorf("State() = %s, expected %s", s.State(), model.StateReady)
		}
		if _, ok := s.Job(); ok {
			t.Error("Job() still present after Stop()")
		}
		if s.Selection().Locked() {
			t.Error("selection still locked after Stop()")
		}
		if err := waitJob(t, s); err != nil {
			t.Errorf("Wait() after Stop error = %v, stopping is not an error", err)
		}
		runner.expectIdle(t)
		if got := runner.files(); len(got) != 1 {
			t.Errorf("engine files = %v, expected only the first", got)
		}
		if err := s.Stop(); !errors.Is(err, model.ErrInvalidTransition) {
			t.Errorf("Stop() when idle error = %v", err)
		}
	}
}

func TestService_DestinationFolderIsRepoShortName(t *testing.T) {
	runner := newFakeRunner(false)
	s := NewService(Options{Lister: &fakeLister{files: listing()}, Runner: runner})
	if err := s.LoadRepository(context.Background(), "openai/whisper-tiny"); err != nil {
		t.Fatalf("LoadRepository() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "models")
	if err := s.StartDownload(StartOptions{Destination: dest}); err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	p := runner.next(t)

	folder := filepath.Join(dest, "whisper-tiny")
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		t.Fatalf("folder %s was not created: %v", folder, err)
	}
	job, _ := s.Job()
	if job.Folder != folder {
		t.Errorf("Job().Folder = %s, expected %s", job.Folder, folder)
	}
	if p.req.Dir != folder {
		t.Errorf("engine Dir = %s, expected %s", p.req.Dir, folder)
	}
	_ = s.Stop()
}

func TestService_DestinationNotCreatable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestService(t, newFakeRunner(true), listing(), false)

	var fsErr *FilesystemError
	if err := s.StartDownload(StartOptions{Destination: blocker}); !errors.As(err, &fsErr) {
		t.Errorf("StartDownload() error = %v, expected *FilesystemError", err)
	}
	if err := s.StartDownload(StartOptions{Destination: "  "}); !errors.As(err, &fsErr) {
		t.Errorf("StartDownload() with empty destination error = %v", err)
	}
	if s.State() != model.StateReady || s.Selection().Locked() {
		t.Errorf("state = %s, locked = %v after failed start", s.State(), s.Selection().Locked())
	}
}

func TestService_EngineFailure(t *testing.T) {
	runner := newFakeRunner(false)
	s, _ := newTestService(t, runner, listing(), false)

	if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	runner.next(t).exit(&engine.EngineExitError{Path: "config.json", Code: 3})

	var exitErr *engine.EngineExitError
	if err := waitJob(t, s); !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("Wait() error = %v, expected *EngineExitError", err)
	}
	if s.State() != model.StateFailed {
		t.Errorf("State() = %s, expected %s", s.State(), model.StateFailed)
	}
	job, ok := s.Job()
	if !ok || job.LastError == "" {
		t.Errorf("Job() = %+v, expected LastError", job)
	}
	if s.Selection().Locked() {
		t.Error("selection locked after failure")
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if s.State() != model.StateReady {
		t.Errorf("State() after Reset = %s, expected %s", s.State(), model.StateReady)
	}
	if _, ok := s.Job(); ok {
		t.Error("Job() present after Reset")
	}
}

func TestService_LaunchFailure(t *testing.T) {
	runner := newFakeRunner(false)
	runner.startErr = errors.New("exec format error")
	s, _ := newTestService(t, runner, listing(), false)

	if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	var launchErr *LaunchError
	if err := waitJob(t, s); !errors.As(err, &launchErr) || launchErr.Path != "config.json" {
		t.Errorf("Wait() error = %v, expected *LaunchError", err)
	}
	if s.State() != model.StateFailed {
		t.Errorf("State() = %s, expected %s", s.State(), model.StateFailed)
	}

	// starting again from Failed resets implicitly
	runner.mu.Lock()
	runner.startErr = nil
	runner.auto = true
	runner.mu.Unlock()
	if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); err != nil {
		t.Fatalf("StartDownload() after failure error = %v", err)
	}
	if err := waitJob(t, s); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestService_EngineNotFound(t *testing.T) {
	s := NewService(Options{Lister: &fakeLister{files: listing()}})
	if err := s.LoadRepository(context.Background(), "org/tiny"); err != nil {
		t.Fatalf("LoadRepository() error = %v", err)
	}

	err := s.StartDownload(StartOptions{Destination: t.TempDir(), EnginePath: filepath.Join(t.TempDir(), "aria2c")})
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) || !errors.Is(err, engine.ErrEngineNotFound) {
		t.Errorf("StartDownload() error = %v, expected LaunchError wrapping ErrEngineNotFound", err)
	}
	if s.State() != model.StateReady {
		t.Errorf("State() = %s, expected %s", s.State(), model.StateReady)
	}
}

func TestService_InvalidRateLimit(t *testing.T) {
	s, _ := newTestService(t, newFakeRunner(true), listing(), false)
	if err := s.StartDownload(StartOptions{Destination: t.TempDir(), RateLimit: "fast"}); !errors.Is(err, ErrInvalidRateLimit) {
		t.Errorf("StartDownload() error = %v, expected ErrInvalidRateLimit", err)
	}
}

func TestService_ListingFailure(t *testing.T) {
	listErr := &hub.ListingError{Repo: "org/missing", Reason: hub.ReasonNotFound, StatusCode: 404}
	s := NewService(Options{Lister: &fakeLister{err: listErr}, Runner: newFakeRunner(true)})
	rec := &stateRecorder{}
	s.SetUpdateCallback(rec.callback)

	err := s.LoadRepository(context.Background(), "org/missing")
	if !errors.Is(err, hub.ErrListingFailed) {
		t.Errorf("LoadRepository() error = %v, expected ErrListingFailed", err)
	}
	if s.State() != model.StateIdle {
		t.Errorf("State() = %s, expected %s", s.State(), model.StateIdle)
	}
	if !rec.seen(model.StateListing, model.StateIdle) {
		t.Errorf("state sequence = %v", rec.states)
	}
	if s.Selection() != nil {
		t.Error("Selection() should be nil after a failed listing")
	}
}

func TestService_LoadReplacesListing(t *testing.T) {
	lister := &fakeLister{files: listing()}
	s := NewService(Options{Lister: lister, Runner: newFakeRunner(true)})
	_ = s.LoadRepository(context.Background(), "org/tiny")
	first := s.Selection()

	lister.files = listing()[:1]
	if err := s.LoadRepository(context.Background(), "org/small"); err != nil {
		t.Fatalf("LoadRepository() error = %v", err)
	}
	if s.Selection() == first || s.Selection().Count() != 1 {
		t.Errorf("Selection() was not replaced")
	}
	if s.Repo() != "org/small" {
		t.Errorf("Repo() = %s", s.Repo())
	}
}

func TestService_ResetInvalidWhileActive(t *testing.T) {
	runner := newFakeRunner(false)
	s, _ := newTestService(t, runner, listing(), false)
	_ = s.StartDownload(StartOptions{Destination: t.TempDir()})
	runner.next(t)

	if err := s.Reset(); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("Reset() during job error = %v", err)
	}
	if err := s.Resume(); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("Resume() while downloading error = %v", err)
	}
	_ = s.Stop()
}

func TestService_ProgressUpdates(t *testing.T) {
	runner := newFakeRunner(false)
	s, _ := newTestService(t, runner, listing(), false)
	_ = s.Selection().SelectNone()
	_ = s.Selection().Set("config.json", true)
	_ = s.Selection().Set("README.md", true)

	progress := make(chan model.DownloadJob, 64)
	s.SetUpdateCallback(func(u Update) {
		if u.Kind == UpdateProgress && u.Job != nil {
			progress <- *u.Job
		}
	})

	if err := s.StartDownload(StartOptions{Destination: t.TempDir()}); err != nil {
		t.Fatalf("StartDownload() error = %v", err)
	}
	p := runner.next(t)
	p.lines <- "[#aa 512KiB/1.0MiB(50%) CN:16 DL:2.5MiB ETA:12s]"

	deadline := time.After(testTimeout)
	for {
		select {
		case job := <-progress:
			if job.FilePercent != 50 {
				continue
			}
			if job.Percent != 25 || job.Speed != "2.5MiB/s" || job.ETASec != 12 || job.CurrentFile != "config.json" {
				t.Errorf("progress job = %+v", job)
			}
			_ = s.Stop()
			return
		case <-deadline:
			t.Fatal("no progress update")
		}
	}
}

func TestNormalizeRateLimit(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		valid    bool
	}{
		{"", "", true},
		{"  ", "", true},
		{"500K", "500K", true},
		{"2m", "2M", true},
		{"1024", "1024", true},
		{" 10k ", "10K", true},
		{"0", "", false},
		{"0K", "", false},
		{"1.5M", "", false},
		{"2G", "", false},
		{"M", "", false},
		{"fast", "", false},
		{"-1K", "", false},
	}

	for _, test := range tests {
		got, err := NormalizeRateLimit(test.in)
		if test.valid {
			if err != nil || got != test.expected {
				t.Errorf("NormalizeRateLimit(%q) = %q, %v, expected %q", test.in, got, err, test.expected)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidRateLimit) {
			t.Errorf("NormalizeRateLimit(%q) error = %v, expected ErrInvalidRateLimit", test.in, err)
		}
	}
}

func TestErrorTypes(t *testing.T) {
	inner := errors.New("boom")
	if err := (&LaunchError{Path: "a", Err: inner}); !errors.Is(err, inner) || err.Error() == "" {
		t.Errorf("LaunchError does not wrap: %v", err)
	}
	if err := (&FilesystemError{Op: "mkdir", Path: "/x", Err: inner}); !errors.Is(err, inner) || err.Error() != "mkdir /x: boom" {
		t.Errorf("FilesystemError = %q", err.Error())
	}
}
