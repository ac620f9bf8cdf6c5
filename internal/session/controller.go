package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/askql/internal/api"
)

// Backend is the text-to-SQL service. *api.Client implements it.
type Backend interface {
	Generate(ctx context.Context, question string) (api.Generation, error)
	Execute(ctx context.Context, query string) (api.Execution, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn to be called with the new View after every state
// change. fn runs on the goroutine that caused the change.
func WithObserver(fn func(View)) Option {
	return func(c *Controller) {
		c.observe = fn
	}
}

// Controller drives a Machine with blocking calls to a Backend. It is safe
// for concurrent use; the lock is never held across a network call, so
// overlapping submissions resolve last-ticket-wins.
type Controller struct {
	backend Backend
	logger  *slog.Logger
	observe func(View)

	mu      sync.Mutex
	machine *Machine
}

// NewController returns a Controller in the Idle state.
func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		logger:  slog.New(slog.DiscardHandler),
		machine: NewMachine(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.View()
}

// Submit runs one generation cycle for question and returns the resulting
// view. A blank question issues no request and returns the current view.
func (c *Controller) Submit(ctx context.Context, question string) View {
	c.mu.Lock()
	ticket, ok := c.machine.Submit(question)
	view := c.machine.View()
	c.mu.Unlock()
	if !ok {
		return view
	}
	c.notify(view)

	gen, err := c.generate(ctx, view.Question)
	return c.settle("generation", ticket, func(m *Machine) bool {
		return m.Generated(ticket, gen, err)
	})
}

// Run executes the query bound to the current run action. It returns the
// current view unchanged when no run action is enabled.
func (c *Controller) Run(ctx context.Context) View {
	c.mu.Lock()
	ticket, query, ok := c.machine.Run()
	view := c.machine.View()
	c.mu.Unlock()
	if !ok {
		return view
	}
	c.notify(view)

	exec, err := c.execute(ctx, query)
	return c.settle("execution", ticket, func(m *Machine) bool {
		return m.Executed(ticket, exec, err)
	})
}

func (c *Controller) settle(kind string, ticket Ticket, apply func(*Machine) bool) View {
	c.mu.Lock()
	applied := apply(c.machine)
	current := c.machine.Current()
	view := c.machine.View()
	c.mu.Unlock()

	if !applied {
		c.logger.Debug("discarding superseded response",
			slog.String("kind", kind),
			slog.Uint64("ticket", uint64(ticket)),
			slog.Uint64("current", uint64(current)))
		return view
	}
	c.notify(view)
	return view
}

func (c *Controller) notify(view View) {
	if c.observe != nil {
		c.observe(view)
	}
}

func (c *Controller) generate(ctx context.Context, question string) (api.Generation, error) {
	return SafeGenerate(ctx, c.backend, c.logger, question)
}

func (c *Controller) execute(ctx context.Context, query string) (api.Execution, error) {
	return SafeExecute(ctx, c.backend, c.logger, query)
}

// SafeGenerate calls b.Generate and turns a panic into an error, so a broken
// response still reaches the Machine and re-enables the controls.
func SafeGenerate(ctx context.Context, b Backend, logger *slog.Logger, question string) (gen api.Generation, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("generation request panicked", slog.Any("panic", r))
			err = fmt.Errorf("generate sql: unexpected failure: %v", r)
		}
	}()
	return b.Generate(ctx, question)
}

// SafeExecute is SafeGenerate for executions.
func SafeExecute(ctx context.Context, b Backend, logger *slog.Logger, query string) (exec api.Execution, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("execution request panicked", slog.Any("panic", r))
			err = fmt.Errorf("execute sql: unexpected failure: %v", r)
		}
	}()
	return b.Execute(ctx, query)
}
