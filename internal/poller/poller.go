// Package poller watches a deploy until it reaches a terminal state.
package poller

import (
	"context"
	"errors"
	"strings"
	"time"
)

type State int

const (
	Running State = iota
	Succeeded
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "running"
	}
}

// StatusSource reports the raw status string of the latest deploy.
type StatusSource interface {
	Status(ctx context.Context) (string, error)
}

type StatusFunc func(ctx context.Context) (string, error)

func (f StatusFunc) Status(ctx context.Context) (string, error) { return f(ctx) }

type Update struct {
	Status   string
	Progress int
	State    State
	Err      error
}

type Result struct {
	State    State
	Status   string
	Progress int
	Polls    int
	Err      error
}

type Options struct {
	Interval time.Duration
	// Step is added to the progress indicator on every "building" poll.
	Step int
	// Ceiling caps progress until the deploy is ready.
	Ceiling  int
	OnUpdate func(Update)
}

const (
	DefaultInterval = 5 * time.Second
	DefaultStep     = 10
	DefaultCeiling  = 90
)

type Poller struct {
	source StatusSource
	opts   Options
}

func New(source StatusSource, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Ceiling <= 0 || opts.Ceiling > 100 {
		opts.Ceiling = DefaultCeiling
	}
	return &Poller{source: source, opts: opts}
}

// Handle controls one running poll loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// Cancel stops polling. It is safe to call more than once and after the
// loop has finished.
func (h *Handle) Cancel() { h.cancel() }

func (h *Handle) Done() <-chan struct{} { return h.done }

// Result is only meaningful once Done is closed.
func (h *Handle) Result() Result {
	select {
	case <-h.done:
		return h.result
	default:
		return Result{State: Running}
	}
}

// Wait blocks until the loop finishes or ctx ends.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return Result{State: Running}, ctx.Err()
	}
}

// Start polls immediately and then once per interval until the deploy is
// ready, fails, the status request fails, or the handle is cancelled. There
// is no overall timeout.
func (p *Poller) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer cancel()
		defer close(h.done)
		h.result = p.run(ctx)
	}()
	return h
}

func (p *Poller) run(ctx context.Context) Result {
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	var res Result
	for {
		if ctx.Err() != nil {
			res.State = Cancelled
			return res
		}

		res.Polls++
		status, err := p.source.Status(ctx)
		if err != nil {
			if ctx.Err() != nil {
				res.State = Cancelled
				return res
			}
			res.State = Failed
			res.Err = err
			p.notify(res)
			return res
		}
		res.Status = status

		switch strings.ToLower(status) {
		case "ready", "current":
			res.Progress = 100
			res.State = Succeeded
			p.notify(res)
			return res
		case "error", "failed":
			res.State = Failed
			res.Err = errors.New("deploy " + status)
			p.notify(res)
			return res
		case "building":
			res.Progress = min(res.Progress+p.opts.Step, p.opts.Ceiling)
		}
		p.notify(res)

		select {
		case <-ctx.Done():
			res.State = Cancelled
			return res
		case <-ticker.C:
		}
	}
}

func (p *Poller) notify(res Result) {
	if p.opts.OnUpdate == nil {
		return
	}
	p.opts.OnUpdate(Update{Status: res.Status, Progress: res.Progress, State: res.State, Err: res.Err})
}
