package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrPreviewUnavailable is returned when no preview could be shown. Callers are
// expected to ignore it; the cause has already been logged.
var ErrPreviewUnavailable = errors.New("preview unavailable")

// DefaultPreviewTimeout bounds how long a preview copy is kept around.
const DefaultPreviewTimeout = 60 * time.Second

// Viewer shows a local file to the user. The returned channel is closed when the
// user is done with it; a nil channel means the viewer never signals.
type Viewer interface {
	Open(ctx context.Context, path string) (<-chan struct{}, error)
}

// CommandViewer opens files with an external program such as xdg-open.
type CommandViewer struct {
	Command string
	Args    []string
}

// ParseViewerCommand splits a configured viewer command line.
func ParseViewerCommand(line string) (*CommandViewer, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("empty viewer command")
	}
	return &CommandViewer{Command: fields[0], Args: fields[1:]}, nil
}

// Open starts the viewer and signals when the process exits.
func (v *CommandViewer) Open(ctx context.Context, path string) (<-chan struct{}, error) {
	args := append(append([]string{}, v.Args...), path)
	cmd := exec.CommandContext(ctx, v.Command, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	closed := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(closed)
	}()
	return closed, nil
}

// Lease is a temporary local copy of an attachment handed to a viewer. It is
// released exactly once, by whichever comes first: the viewer closing, the
// timeout, an explicit Release or the previewer shutting down.
type Lease struct {
	Path string

	once      sync.Once
	done      chan struct{}
	disposers []func() error
	err       error
}

func newLease() *Lease {
	return &Lease{done: make(chan struct{})}
}

func (l *Lease) onRelease(fn func() error) {
	l.disposers = append(l.disposers, fn)
}

// Release runs the disposers in reverse order. Later calls return the first result.
func (l *Lease) Release() error {
	l.once.Do(func() {
		var errs []error
		for i := len(l.disposers) - 1; i >= 0; i-- {
			if err := l.disposers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		l.disposers = nil
		l.err = errors.Join(errs...)
		close(l.done)
	})
	return l.err
}

// Done is closed once the lease has been released.
func (l *Lease) Done() <-chan struct{} {
	return l.done
}

// Previewer materialises attachments as temporary files for a Viewer.
type Previewer struct {
	viewer  Viewer
	timeout time.Duration
	dir     string
	render  bool
	log     *slog.Logger

	mu     sync.Mutex
	leases map[*Lease]struct{}
	closed bool
}

// PreviewOption configures a Previewer.
type PreviewOption func(*Previewer)

// WithTimeout sets the safety timeout after which a lease is released.
func WithTimeout(d time.Duration) PreviewOption {
	return func(p *Previewer) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithTempDir sets where preview copies are written. Defaults to os.TempDir().
func WithTempDir(dir string) PreviewOption {
	return func(p *Previewer) { p.dir = dir }
}

// WithRendering toggles rendering images and DICOM files to PNG thumbnails.
func WithRendering(on bool) PreviewOption {
	return func(p *Previewer) { p.render = on }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) PreviewOption {
	return func(p *Previewer) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPreviewer returns a previewer showing files through v.
func NewPreviewer(v Viewer, opts ...PreviewOption) *Previewer {
	p := &Previewer{
		viewer:  v,
		timeout: DefaultPreviewTimeout,
		render:  true,
		log:     slog.Default(),
		leases:  make(map[*Lease]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preview copies a to a temporary file and opens it in the viewer. The returned
// lease is already being watched; callers may Release it early.
func (p *Previewer) Preview(ctx context.Context, a Attachment) (*Lease, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed || p.viewer == nil || a.File == nil {
		return nil, ErrPreviewUnavailable
	}

	lease := newLease()
	path, err := p.materialise(lease, a)
	if err != nil {
		_ = lease.Release()
		p.log.Warn("preview failed", "attachment", a.Name, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPreviewUnavailable, err)
	}
	lease.Path = path

	signal, err := p.viewer.Open(ctx, path)
	if err != nil {
		_ = lease.Release()
		p.log.Warn("viewer could not open preview", "attachment", a.Name, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPreviewUnavailable, err)
	}

	lease.onRelease(func() error {
		p.mu.Lock()
		delete(p.leases, lease)
		p.mu.Unlock()
		return nil
	})
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = lease.Release()
		return nil, ErrPreviewUnavailable
	}
	p.leases[lease] = struct{}{}
	p.mu.Unlock()

	go p.watch(lease, signal, a.Name)
	p.log.Debug("preview opened", "attachment", a.Name, "path", path)
	return lease, nil
}

func (p *Previewer) watch(lease *Lease, signal <-chan struct{}, name string) {
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-signal:
		p.log.Debug("preview closed by viewer", "attachment", name)
	case <-timer.C:
		p.log.Debug("preview timed out", "attachment", name, "timeout", p.timeout)
	case <-lease.done:
		return
	}
	if err := lease.Release(); err != nil {
		p.log.Warn("preview cleanup failed", "attachment", name, "error", err)
	}
}

// materialise writes the attachment content, and its thumbnail when rendering
// applies, registering a disposer for every file created.
func (p *Previewer) materialise(lease *Lease, a Attachment) (string, error) {
	src, err := a.File.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(p.dir, "zalacznik-*"+filepath.Ext(a.Name))
	if err != nil {
		return "", err
	}
	lease.onRelease(func() error { return removeIfExists(tmp.Name()) })

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if !p.render || !IsRenderable(tmp.Name()) {
		return tmp.Name(), nil
	}

	thumb := strings.TrimSuffix(tmp.Name(), filepath.Ext(tmp.Name())) + ".png"
	if thumb == tmp.Name() {
		thumb = tmp.Name() + ".thumb.png"
	}
	lease.onRelease(func() error { return removeIfExists(thumb) })
	if err := WritePNG(thumb, tmp.Name()); err != nil {
		// Fall back to the raw copy; the viewer may still handle it.
		p.log.Debug("thumbnail rendering failed", "attachment", a.Name, "error", err)
		return tmp.Name(), nil
	}
	return thumb, nil
}

// Active returns the number of unreleased leases.
func (p *Previewer) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.leases)
}

// Close releases every outstanding lease and refuses new previews.
func (p *Previewer) Close() error {
	p.mu.Lock()
	p.closed = true
	leases := make([]*Lease, 0, len(p.leases))
	for l := range p.leases {
		leases = append(leases, l)
	}
	p.mu.Unlock()

	var errs []error
	for _, l := range leases {
		if err := l.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
