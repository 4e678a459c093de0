package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"skinscan/capture"
	"skinscan/models"
	"skinscan/progress"
	"skinscan/routinelog"
)

const DefaultSplashDelay = 2500 * time.Millisecond

// Analyzer produces a result from a captured image.
type Analyzer interface {
	Analyze(ctx context.Context, img *capture.CapturedImage, profile models.UserProfile) (*models.AnalysisResult, error)
}

// ResultHook is called once for every scan that reaches the results screen.
type ResultHook func(ctx context.Context, result *models.AnalysisResult, img *capture.CapturedImage)

type Option func(*Controller)

func WithSplashDelay(d time.Duration) Option {
	return func(c *Controller) { c.splashDelay = d }
}

func WithProgress(cfg progress.Config) Option {
	return func(c *Controller) { c.progressCfg = cfg }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn to be told about every screen change. fn runs
// outside the controller lock.
func WithObserver(fn func(Transition)) Option {
	return func(c *Controller) { c.observer = fn }
}

func WithResultHook(fn ResultHook) Option {
	return func(c *Controller) { c.onResult = fn }
}

func WithLogBook(book *routinelog.Book) Option {
	return func(c *Controller) {
		if book != nil {
			c.session.Log = book
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

type scanRun struct {
	sim    *progress.Simulator
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller drives one Session through its screens. All methods are safe
// for concurrent use.
type Controller struct {
	id        string
	createdAt time.Time

	analyzer    Analyzer
	logger      *slog.Logger
	splashDelay time.Duration
	progressCfg progress.Config
	observer    func(Transition)
	onResult    ResultHook
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	session *Session
	splash  *time.Timer
	scan    *scanRun
	lastSim *progress.Simulator
	closed  bool
}

// NewController starts a session on the splash screen. The splash screen
// gives way to Home after the splash delay; a delay of zero or less starts
// the session on Home.
func NewController(analyzer Analyzer, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		id:          uuid.New().String(),
		analyzer:    analyzer,
		logger:      slog.Default(),
		splashDelay: DefaultSplashDelay,
		progressCfg: progress.DefaultConfig(),
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		session:     newSession(routinelog.NewBook()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.createdAt = c.now()
	c.logger = c.logger.With("session", c.id)

	if c.splashDelay <= 0 {
		c.session.Screen = Home
	} else {
		c.splash = time.AfterFunc(c.splashDelay, c.finishSplash)
	}
	return c
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Screen
}

func (c *Controller) finishSplash() {
	c.mu.Lock()
	if c.closed || c.session.Screen != Splash {
		c.mu.Unlock()
		return
	}
	t := c.moveLocked(Home, true)
	c.mu.Unlock()
	c.notify(t)
}

// Navigate performs a user-initiated screen change. Leaving PreScan for
// Scan requires a complete profile; leaving Scan cancels a running scan.
func (c *Controller) Navigate(to Screen) error {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	from := c.session.Screen
	if !CanNavigate(from, to) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, from, to)
	}
	if from == PreScan && to == Scan && !c.session.Profile.CanProceed() {
		c.mu.Unlock()
		return ErrIncompleteProfile
	}
	t := c.moveLocked(to, false)
	c.mu.Unlock()

	c.notify(t)
	return nil
}

// Back follows the back action of the current screen.
func (c *Controller) Back() (Screen, error) {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return 0, err
	}
	from := c.session.Screen
	to, ok := BackTarget(from)
	if !ok {
		c.mu.Unlock()
		return from, fmt.Errorf("%w: no back action from %s", ErrIllegalTransition, from)
	}
	t := c.moveLocked(to, false)
	c.mu.Unlock()

	c.notify(t)
	return to, nil
}

// moveLocked switches screens and applies the enter and leave effects.
func (c *Controller) moveLocked(to Screen, auto bool) Transition {
	from := c.session.Screen
	if from == Scan && c.scan != nil {
		c.scan.cancel()
		c.lastSim = c.scan.sim
		c.scan = nil
		c.logger.Debug("scan cancelled by navigation", "to", to)
	}
	if to == Scan {
		c.session.Image = nil
		c.lastSim = nil
	}
	c.session.LastError = nil
	c.session.Screen = to
	c.logger.Debug("screen changed", "from", from, "to", to, "automatic", auto)
	return Transition{From: from, To: to, Automatic: auto}
}

func (c *Controller) notify(t Transition) {
	if c.observer != nil {
		c.observer(t)
	}
}

func (c *Controller) checkOpenLocked() error {
	if c.closed {
		return ErrSessionClosed
	}
	return nil
}

func (c *Controller) Profile() models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Profile.Clone()
}

func (c *Controller) CanProceed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Profile.CanProceed()
}

// SetProfile replaces the intake profile. Labels are matched against the
// intake options ignoring case. Only allowed on the PreScan screen.
func (c *Controller) SetProfile(p models.UserProfile) (models.UserProfile, error) {
	p, err := models.NormalizeProfile(p)
	if err != nil {
		return models.UserProfile{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.intakeLocked(); err != nil {
		return models.UserProfile{}, err
	}
	c.session.Profile = p
	return p.Clone(), nil
}

// ToggleCondition adds or removes one optional skin condition.
func (c *Controller) ToggleCondition(condition string) (models.UserProfile, error) {
	canon, err := models.Canonical(condition, models.Conditions)
	if err != nil {
		return models.UserProfile{}, err
	}
	if canon == "" {
		return models.UserProfile{}, fmt.Errorf("%w %q", models.ErrUnknownOption, condition)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.intakeLocked(); err != nil {
		return models.UserProfile{}, err
	}
	c.session.Profile.ToggleCondition(canon)
	return c.session.Profile.Clone(), nil
}

func (c *Controller) intakeLocked() error {
	if err := c.checkOpenLocked(); err != nil {
		return err
	}
	if c.session.Screen != PreScan {
		return fmt.Errorf("%w: profile is edited on %s", ErrWrongScreen, PreScan)
	}
	return nil
}

// Capture stores img as the image of the current scan, replacing any
// earlier one.
func (c *Controller) Capture(img *capture.CapturedImage) error {
	if img == nil || img.Image == nil {
		return ErrNoImage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.captureLocked(); err != nil {
		return err
	}
	c.session.Image = img
	c.session.LastError = nil
	return nil
}

// CaptureFromCamera takes a snapshot from dev. Camera failures are kept as
// the session's error so the client can show the message and fall back to
// an upload.
func (c *Controller) CaptureFromCamera(ctx context.Context, dev capture.Device) error {
	c.mu.Lock()
	err := c.captureLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	img, err := capture.FromCamera(ctx, dev)
	if err != nil {
		c.mu.Lock()
		if c.session.Screen == Scan {
			c.session.LastError = err
		}
		c.mu.Unlock()
		return err
	}
	return c.Capture(img)
}

// ReportCameraError records a camera failure reported by the client by its
// browser error name.
func (c *Controller) ReportCameraError(name string) (*capture.CameraError, error) {
	camErr := capture.ClassifyCameraError(name, nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.captureLocked(); err != nil {
		return nil, err
	}
	c.session.LastError = camErr
	return camErr, nil
}

func (c *Controller) captureLocked() error {
	if err := c.checkOpenLocked(); err != nil {
		return err
	}
	if c.session.Screen != Scan {
		return fmt.Errorf("%w: images are captured on %s", ErrWrongScreen, Scan)
	}
	if c.scan != nil {
		return ErrScanInProgress
	}
	return nil
}

func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.LastError
}

func (c *Controller) DismissError() {
	c.mu.Lock()
	c.session.LastError = nil
	c.mu.Unlock()
}

// StartScan begins the simulated analysis of the captured image. When the
// progress reaches 100 and the completion delay passes, the analyzer runs
// and the session moves to Results. A decode failure discards the image and
// leaves the session on Scan with the error recorded.
func (c *Controller) StartScan() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.captureLocked(); err != nil {
		return err
	}
	img := c.session.Image
	if img == nil {
		return ErrNoImage
	}

	ctx, cancel := context.WithCancel(c.ctx)
	run := &scanRun{
		sim:    progress.NewSimulator(c.progressCfg, c.logger),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.scan = run
	c.lastSim = nil
	c.session.LastError = nil

	go c.runScan(ctx, run, img, c.session.Profile.Clone())
	return nil
}

func (c *Controller) runScan(ctx context.Context, run *scanRun, img *capture.CapturedImage, profile models.UserProfile) {
	defer close(run.done)
	defer run.cancel()

	if err := run.sim.Run(ctx, nil); err != nil {
		return
	}

	result, err := c.analyzer.Analyze(ctx, img, profile)

	c.mu.Lock()
	if c.scan != run || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.scan = nil
	c.lastSim = run.sim

	if err != nil {
		c.session.Image = nil
		c.session.LastError = err
		c.mu.Unlock()
		c.logger.Warn("scan failed", "error", err)
		return
	}

	c.session.Result = result
	t := c.moveLocked(Results, true)
	c.mu.Unlock()

	c.logger.Info("scan completed", "result", result.ID, "primary", result.Diagnosis.PrimaryType)
	c.notify(t)
	if c.onResult != nil {
		c.onResult(context.WithoutCancel(ctx), result, img)
	}
}

// Scanning reports whether a scan is running.
func (c *Controller) Scanning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scan != nil
}

// Progress returns the running scan's progress, or that of the last scan.
func (c *Controller) Progress() progress.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *Controller) progressLocked() progress.Snapshot {
	switch {
	case c.scan != nil:
		return c.scan.sim.Snapshot()
	case c.lastSim != nil:
		return c.lastSim.Snapshot()
	default:
		return progress.Snapshot{State: progress.Idle}
	}
}

// Results returns the view for the results screen.
func (c *Controller) Results() ResultsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Result == nil {
		return ResultsView{Status: StatusNoData}
	}
	return ResultsView{Status: StatusOK, Result: c.session.Result}
}

func (c *Controller) LogBook() *routinelog.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Log
}

// AddLogEntry records a routine in the session's treatment log.
func (c *Controller) AddLogEntry(routine models.Routine, condition models.SkinCondition, notes string) (models.LogEntry, error) {
	c.mu.Lock()
	if err := c.checkOpenLocked(); err != nil {
		c.mu.Unlock()
		return models.LogEntry{}, err
	}
	book := c.session.Log
	c.mu.Unlock()
	return book.Add(routine, condition, notes, c.now())
}

// State is a JSON-friendly snapshot of the session.
type State struct {
	ID           string             `json:"id"`
	Screen       Screen             `json:"screen"`
	Destinations []Screen           `json:"destinations"`
	Profile      models.UserProfile `json:"profile"`
	CanProceed   bool               `json:"can_proceed"`
	HasImage     bool               `json:"has_image"`
	HasResult    bool               `json:"has_result"`
	Scanning     bool               `json:"scanning"`
	Progress     progress.Snapshot  `json:"progress"`
	Error        string             `json:"error,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		ID:           c.id,
		Screen:       c.session.Screen,
		Destinations: Destinations(c.session.Screen),
		Profile:      c.session.Profile.Clone(),
		CanProceed:   c.session.Profile.CanProceed(),
		HasImage:     c.session.Image != nil,
		HasResult:    c.session.Result != nil,
		Scanning:     c.scan != nil,
		Progress:     c.progressLocked(),
		CreatedAt:    c.createdAt,
	}
	if err := c.session.LastError; err != nil {
		s.Error = errorMessage(err)
	}
	return s
}

func errorMessage(err error) string {
	var camErr *capture.CameraError
	if errors.As(err, &camErr) {
		return camErr.Message()
	}
	return err.Error()
}

// Close tears the session down: the splash timer is stopped and a running
// scan is cancelled without touching the session again.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.splash != nil {
		c.splash.Stop()
	}
	if c.scan != nil {
		c.lastSim = c.scan.sim
		c.scan = nil
	}
	c.cancel()
	c.logger.Debug("session closed")
}
