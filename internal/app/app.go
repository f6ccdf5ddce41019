// Package app holds the wizard's application state and page transitions:
// setup collects the profile, dashboard shows the plan, guide explains the
// hand measures.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	applog "github.com/janisto/fistfuel/internal/platform/logging"
	"github.com/janisto/fistfuel/internal/service/portion"
	"github.com/janisto/fistfuel/internal/service/profile"
)

// ErrUnknownPage is returned when navigating to a page with no route.
var ErrUnknownPage = errors.New("unknown page")

// Page identifies a screen.
type Page string

const (
	PageSetup     Page = "setup"
	PageDashboard Page = "dashboard"
	PageGuide     Page = "guide"
)

// Route configures a page. OnEnter runs after the page becomes current and
// may return another page to redirect to; OnLeave runs before the page is
// left. Either hook may be nil.
type Route struct {
	Title   string
	OnEnter func(ctx context.Context) Page
	OnLeave func(ctx context.Context)
}

// ProfileStore is the persistence the controller needs.
type ProfileStore interface {
	Load(ctx context.Context) (*profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
	Clear(ctx context.Context) error
}

// Planner computes the plan shown on the dashboard.
type Planner interface {
	CalculateProfile(ctx context.Context, p profile.Profile) portion.Result
}

// State is a snapshot of what the UI should render.
type State struct {
	Page    Page
	Title   string
	Profile *profile.Profile
	Plan    *portion.Result
}

// SetupInput is the raw setup form. Goal may be a code or a display label.
type SetupInput struct {
	Goal   string
	Height float64
	Weight float64
}

// Controller owns the application state. All transitions are serialized.
type Controller struct {
	mu      sync.Mutex
	store   ProfileStore
	planner Planner
	routes  map[Page]Route
	state   State
}

// New creates a controller with no current page; call Start first.
func New(store ProfileStore, planner Planner) *Controller {
	c := &Controller{store: store, planner: planner}
	c.routes = map[Page]Route{
		PageSetup:     {Title: "设置 - 一拳膳食"},
		PageDashboard: {Title: "今日规划 - 一拳膳食", OnEnter: c.enterDashboard},
		PageGuide:     {Title: "使用指南 - 一拳膳食"},
	}
	return c
}

// Start opens the dashboard when a valid profile is stored and setup otherwise.
func (c *Controller) Start(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	initial := PageSetup
	if _, err := c.store.Load(ctx); err == nil {
		initial = PageDashboard
	}
	applog.LogInfo(ctx, "app started", zap.String("page", string(initial)))
	if err := c.navigate(ctx, initial); err != nil {
		return State{}, err
	}
	return c.snapshot(), nil
}

// Navigate switches to page, running the route hooks.
func (c *Controller) Navigate(ctx context.Context, page Page) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.navigate(ctx, page); err != nil {
		return c.snapshot(), err
	}
	return c.snapshot(), nil
}

// Submit validates and saves the setup form, then opens the dashboard. On a
// validation or storage error the state is unchanged.
func (c *Controller) Submit(ctx context.Context, in SetupInput) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	goal, ok := profile.ParseGoal(in.Goal)
	if !ok {
		goal = profile.Goal(in.Goal)
	}
	p := profile.Profile{Goal: goal, Height: in.Height, Weight: in.Weight}
	if err := p.Validate(); err != nil {
		return c.snapshot(), err
	}
	if err := c.store.Save(ctx, p); err != nil {
		return c.snapshot(), fmt.Errorf("submit setup: %w", err)
	}

	c.state.Profile = nil
	c.state.Plan = nil
	if err := c.navigate(ctx, PageDashboard); err != nil {
		return c.snapshot(), err
	}
	return c.snapshot(), nil
}

// Reset clears the stored profile and returns to setup. If clearing fails
// nothing changes.
func (c *Controller) Reset(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		return c.snapshot(), fmt.Errorf("reset: %w", err)
	}
	c.state.Profile = nil
	c.state.Plan = nil
	if err := c.navigate(ctx, PageSetup); err != nil {
		return c.snapshot(), err
	}
	return c.snapshot(), nil
}

// Back goes from guide to dashboard, from dashboard to setup, and from
// anywhere else to dashboard.
func (c *Controller) Back(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := PageDashboard
	if c.state.Page == PageDashboard {
		target = PageSetup
	}
	if err := c.navigate(ctx, target); err != nil {
		return c.snapshot(), err
	}
	return c.snapshot(), nil
}

// View returns the current state.
func (c *Controller) View() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// navigate follows at most one redirect per route in the table, which keeps a
// misconfigured pair of hooks from looping.
func (c *Controller) navigate(ctx context.Context, page Page) error {
	visited := make(map[Page]bool, len(c.routes))
	for {
		route, ok := c.routes[page]
		if !ok {
			applog.LogWarn(ctx, "navigation to unknown page", zap.String("page", string(page)))
			return fmt.Errorf("%w: %q", ErrUnknownPage, page)
		}
		if visited[page] {
			return fmt.Errorf("redirect loop at page %q", page)
		}
		visited[page] = true

		if current, ok := c.routes[c.state.Page]; ok && current.OnLeave != nil {
			current.OnLeave(ctx)
		}
		from := c.state.Page
		c.state.Page = page
		c.state.Title = route.Title
		applog.LogDebug(ctx, "navigated", zap.String("from", string(from)), zap.String("to", string(page)))

		if route.OnEnter == nil {
			return nil
		}
		next := route.OnEnter(ctx)
		if next == "" || next == page {
			return nil
		}
		page = next
	}
}

// enterDashboard reads the profile on every entry and computes the plan.
// Without a readable profile it redirects to setup.
func (c *Controller) enterDashboard(ctx context.Context) Page {
	p, err := c.store.Load(ctx)
	if err != nil {
		applog.LogWarn(ctx, "dashboard has no profile, redirecting to setup", zap.Error(err))
		c.state.Profile = nil
		c.state.Plan = nil
		return PageSetup
	}
	c.state.Profile = p
	plan := c.planner.CalculateProfile(ctx, *p)
	c.state.Plan = &plan
	return ""
}

func (c *Controller) snapshot() State {
	s := c.state
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	if s.Plan != nil {
		plan := *s.Plan
		s.Plan = &plan
	}
	return s
}
