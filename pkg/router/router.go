package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// View renders one page of the application to w.
type View func(ctx context.Context, w io.Writer) error

// Router maps destination names to views and renders them on Navigate.
// Unknown destinations fall through to the configured fallback, like the
// catch-all route of the original application.
type Router struct {
	mu       sync.Mutex
	views    map[string]View
	history  []string
	fallback string
	out      io.Writer
	logger   *slog.Logger
}

func New(out io.Writer, fallback string, logger *slog.Logger) *Router {
	return &Router{
		views:    make(map[string]View),
		fallback: fallback,
		out:      out,
		logger:   logger,
	}
}

func (r *Router) Handle(name string, v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[name] = v
}

// Navigate renders the named view and records it in the history.
func (r *Router) Navigate(ctx context.Context, name string) error {
	r.mu.Lock()
	v, ok := r.views[name]
	if !ok {
		name = r.fallback
		v = r.views[name]
	}
	r.history = append(r.history, name)
	out := r.out
	r.mu.Unlock()

	if v == nil {
		return fmt.Errorf("no view registered for %q", name)
	}
	return v(ctx, out)
}

// NavigateTo lets the router stand in for transport.Navigator. Render errors
// only get logged here; the triggering request already carries the failure.
func (r *Router) NavigateTo(name string) {
	if err := r.Navigate(context.Background(), name); err != nil {
		r.logger.Error("forced navigation failed", "destination", name, "error", err)
	}
}

// Back renders the previous destination again.
func (r *Router) Back(ctx context.Context) error {
	r.mu.Lock()
	if len(r.history) > 0 {
		r.history = r.history[:len(r.history)-1]
	}
	name := r.fallback
	if len(r.history) > 0 {
		name = r.history[len(r.history)-1]
		r.history = r.history[:len(r.history)-1]
	}
	r.mu.Unlock()
	return r.Navigate(ctx, name)
}

// Current is the destination rendered last, or "" before any navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// Previous is the destination before the current one, or "" if there is none.
func (r *Router) Previous() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) < 2 {
		return ""
	}
	return r.history[len(r.history)-2]
}
