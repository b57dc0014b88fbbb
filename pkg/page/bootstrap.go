package page

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/knowdesk/pagekit/internal/errors"
)

// State is a bootstrap state.
type State int

const (
	StateParsing State = iota + 1
	StateResolving
	StateMounted
	StateErrorFallback
)

func (s State) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateResolving:
		return "resolving"
	case StateMounted:
		return "mounted"
	case StateErrorFallback:
		return "error_fallback"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FallbackMessage is reported to the user when the page falls back.
const FallbackMessage = "The requested page could not be loaded."

// Result describes a finished bootstrap.
type Result struct {
	// State is the terminal state: StateMounted, or StateErrorFallback if
	// even the placeholder could not be mounted.
	State State

	// Trace lists every state entered, in order.
	Trace []State

	// Descriptor is the parsed descriptor or the synthesized fallback.
	Descriptor Descriptor

	Page *Resolved
	Root *Root

	// Fallback is set when the bootstrap passed through StateErrorFallback.
	Fallback bool

	// Errors holds every recovered error.
	Errors []error
}

// Visited reports whether s appears in the trace.
func (r *Result) Visited(s State) bool {
	for _, t := range r.Trace {
		if t == s {
			return true
		}
	}
	return false
}

// Outcome is a short label for metrics: "mounted", "fallback" or "failed".
func (r *Result) Outcome() string {
	switch {
	case r.State != StateMounted:
		return "failed"
	case r.Fallback:
		return "fallback"
	default:
		return "mounted"
	}
}

func (r *Result) enter(s State) {
	r.State = s
	r.Trace = append(r.Trace, s)
	if s == StateErrorFallback {
		r.Fallback = true
	}
}

// Config configures a Bootstrap.
type Config struct {
	// Document is the host document. A nil document is treated as a
	// descriptor parse failure.
	Document *Document

	Resolver *Resolver
	Runtime  Runtime

	// Location is the current navigation URL, used by the fallback
	// descriptor.
	Location string

	Logger   *slog.Logger
	Reporter Reporter
	Observer Observer
}

// Bootstrap parses, resolves and mounts one page. Run executes at most once.
type Bootstrap struct {
	cfg    Config
	once   sync.Once
	result *Result
}

// NewBootstrap creates a Bootstrap.
func NewBootstrap(cfg Config) *Bootstrap {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = NewResolver(nil)
	}
	if cfg.Runtime == nil {
		doc := cfg.Document
		if doc == nil {
			doc = NewDocument("")
		}
		cfg.Runtime = NewHTMLRuntime(doc)
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &Bootstrap{cfg: cfg}
}

// Run executes the bootstrap. It never panics and never fails: every error
// is recovered into the Result. Later calls return the first result.
func (b *Bootstrap) Run(ctx context.Context) *Result {
	b.once.Do(func() {
		b.result = b.run(ctx)
		b.cfg.Observer.Finished(ctx, b.result)
	})
	return b.result
}

func (b *Bootstrap) run(ctx context.Context) *Result {
	res := &Result{}

	res.enter(StateParsing)
	desc, err := b.parse()
	if err != nil {
		b.recovered(res, err, "page descriptor unreadable, using fallback", "location", b.cfg.Location)
		res.enter(StateErrorFallback)
		desc = FallbackDescriptor(b.cfg.Location)
	}
	res.Descriptor = desc

	res.enter(StateResolving)
	resolved, err := b.cfg.Resolver.Resolve(ctx, desc.Component)
	if err != nil {
		b.recovered(res, err, "page resolution failed", "component", desc.Component)
		res.enter(StateErrorFallback)
		resolved = b.cfg.Resolver.Placeholder(desc.Component)
		b.report()
	}
	res.Page = resolved

	root, err := b.mount(ctx, resolved, desc.Props)
	if err != nil && resolved.Default.Missing == "" {
		b.recovered(res, err, "page mount failed", "component", desc.Component)
		res.enter(StateErrorFallback)
		resolved = b.cfg.Resolver.Placeholder(desc.Component)
		res.Page = resolved
		b.report()
		root, err = b.mount(ctx, resolved, desc.Props)
	}
	if err != nil && resolved.Default.Layout != BaseLayout {
		// The default layout itself may be what fails.
		b.recovered(res, err, "placeholder mount failed, retrying in base layout", "component", desc.Component)
		if res.State != StateErrorFallback {
			res.enter(StateErrorFallback)
		}
		resolved = &Resolved{Default: Placeholder(desc.Component).withLayout(BaseLayout)}
		res.Page = resolved
		root, err = b.mount(ctx, resolved, desc.Props)
	}
	if err != nil {
		b.recovered(res, err, "placeholder mount failed", "component", desc.Component)
		if res.State != StateErrorFallback {
			res.enter(StateErrorFallback)
		}
		return res
	}

	res.Root = root
	res.enter(StateMounted)
	b.cfg.Logger.Info("page mounted",
		"component", desc.Component,
		"root", root.ID,
		"fallback", res.Fallback)
	return res
}

func (b *Bootstrap) parse() (Descriptor, error) {
	if b.cfg.Document == nil {
		return Descriptor{}, errors.New(errors.CodeDescriptorParse).WithDetail("no host document")
	}
	return b.cfg.Document.Descriptor()
}

func (b *Bootstrap) mount(ctx context.Context, page *Resolved, props map[string]any) (root *Root, err error) {
	defer func() {
		if p := recover(); p != nil {
			root, err = nil, errors.New(errors.CodeMountFailed).Wrap(fmt.Errorf("panic: %v", p))
		}
	}()
	return b.cfg.Runtime.Mount(ctx, page, props)
}

func (b *Bootstrap) recovered(res *Result, err error, msg string, args ...any) {
	res.Errors = append(res.Errors, err)
	args = append(args, "code", errors.CodeOf(err), "error", err)
	b.cfg.Logger.Warn(msg, args...)
}

func (b *Bootstrap) report() {
	if b.cfg.Reporter != nil {
		b.cfg.Reporter.ShowError(FallbackMessage)
	}
}
