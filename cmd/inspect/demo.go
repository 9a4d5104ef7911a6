package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/runtime"
	"github.com/wippyai/ui-runtime/scheduler"
	"github.com/wippyai/ui-runtime/vnode"
)

// counterProps is a stateless demo component: the inspector mutates Count and
// marks the scope dirty to drive a re-render.
type counterProps struct {
	Label string
	Count int
}

func (p *counterProps) Render(s *runtime.Scope) runtime.RenderReturn {
	root := s.Element("div",
		[]vnode.Attr{s.Attr("class", "counter")},
		s.Text(fmt.Sprintf("%s: %d", p.Label, p.Count)),
	)
	return runtime.RenderReturn{Kind: runtime.RenderReady, Root: root}
}

// feedProps simulates a component awaiting remote data: it suspends until a
// timer fires, then resolves on the wake-driven re-render.
type feedProps struct {
	Delay time.Duration

	fired   atomic.Bool
	started atomic.Bool
}

// Restart re-arms the feed so the next render suspends again.
func (p *feedProps) Restart() {
	p.fired.Store(false)
	p.started.Store(false)
}

func (p *feedProps) Render(s *runtime.Scope) runtime.RenderReturn {
	if p.fired.Load() {
		root := s.Element("section",
			[]vnode.Attr{s.Attr("class", "feed")},
			s.Text("feed loaded"),
		)
		return runtime.RenderReturn{Kind: runtime.RenderReady, Root: root}
	}

	fut := &timedFuture{scope: s, fired: &p.fired}
	if !p.started.Swap(true) {
		delay := p.Delay
		s.Spawn(func(ctx context.Context) {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			p.fired.Store(true)
			fut.wake()
		})
	}
	return runtime.RenderReturn{Kind: runtime.RenderPending, Task: fut}
}

// timedFuture stays pending until the owning feed fires it.
type timedFuture struct {
	scope *runtime.Scope
	fired *atomic.Bool
	waker atomic.Pointer[scheduler.Waker]
}

func (f *timedFuture) Poll(w *scheduler.Waker) (*vnode.VNode, bool) {
	if f.fired.Load() {
		return f.scope.Text("feed loaded"), true
	}
	f.waker.Store(w)
	return nil, false
}

func (f *timedFuture) wake() {
	if w := f.waker.Load(); w != nil {
		w.Wake()
	}
}

// appProps is the demo root: it mounts the counters and the feed as child
// scopes on its first render.
type appProps struct {
	rt       *runtime.Runtime
	counters []*counterProps
	feed     *feedProps

	children []uiruntime.ScopeID
}

func (p *appProps) Render(s *runtime.Scope) runtime.RenderReturn {
	if s.NeedsRender() {
		for i, c := range p.counters {
			id := p.rt.NewScope(c, fmt.Sprintf("Counter%d", i+1))
			p.children = append(p.children, id)
		}
		if p.feed != nil {
			id := p.rt.NewScope(p.feed, "Feed")
			p.children = append(p.children, id)
		}
	}

	root := s.Element("main",
		[]vnode.Attr{s.Attr("id", "app")},
		s.Text(fmt.Sprintf("%d children mounted", len(p.children))),
	)
	return runtime.RenderReturn{Kind: runtime.RenderReady, Root: root}
}

// mountDemo builds the demo tree and renders every scope once.
func mountDemo(rt *runtime.Runtime, counters int, feedDelay time.Duration) (uiruntime.ScopeID, *appProps) {
	app := &appProps{rt: rt}
	for i := 0; i < counters; i++ {
		app.counters = append(app.counters, &counterProps{Label: fmt.Sprintf("clicks-%d", i+1)})
	}
	if feedDelay > 0 {
		app.feed = &feedProps{Delay: feedDelay}
	}

	root := rt.NewScope(app, "App")
	rt.RunScope(root)
	for _, id := range app.children {
		rt.RunScope(id)
	}
	return root, app
}

// formatTree prints a published node tree, one node per line.
func formatTree(n *vnode.VNode, depth int) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case vnode.KindText:
		fmt.Fprintf(&b, "%s%q\n", indent, n.Text)
	case vnode.KindPlaceholder:
		fmt.Fprintf(&b, "%s<placeholder>\n", indent)
	default:
		var attrs []string
		for _, a := range n.Attrs {
			attrs = append(attrs, fmt.Sprintf(" %s=%q", a.Name, a.Value))
		}
		fmt.Fprintf(&b, "%s<%s%s>\n", indent, n.Tag, strings.Join(attrs, ""))
		for _, c := range n.Children {
			b.WriteString(formatTree(c, depth+1))
		}
	}
	return b.String()
}
