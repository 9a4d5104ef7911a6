// Command inspect mounts a demo component tree and visualizes the render
// lifecycle: scope registry contents, render counters, dirty marks, and
// suspended scopes resolving as their data arrives.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	uiruntime "github.com/wippyai/ui-runtime"
	"github.com/wippyai/ui-runtime/runtime"
	"github.com/wippyai/ui-runtime/scheduler"
)

func main() {
	var (
		counters  = flag.Int("counters", 2, "Number of counter components to mount")
		feedDelay = flag.Duration("feed-delay", 2*time.Second, "Simulated feed load time (0 disables the feed)")
		snapshot  = flag.Bool("snapshot", false, "Render the tree once and exit (no TUI)")
	)
	flag.Parse()

	if *snapshot || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runSnapshot(*counters, *feedDelay); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runInteractive(*counters, *feedDelay); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runSnapshot mounts the demo, waits out any suspended scopes, and prints the
// published tree of every live scope.
func runSnapshot(counters int, feedDelay time.Duration) error {
	rt := runtime.New(scheduler.New())
	root, app := mountDemo(rt, counters, feedDelay)

	// Drive wakes until nothing is suspended.
	deadline := time.After(feedDelay + 5*time.Second)
	for rt.Scheduler().LeafCount() > 0 {
		select {
		case m := <-rt.Scheduler().Wakes():
			rt.HandleWake(m)
			rt.ProcessDirty()
		case <-deadline:
			return fmt.Errorf("%d scopes still suspended", rt.Scheduler().LeafCount())
		}
	}

	for _, id := range append([]uiruntime.ScopeID{root}, app.children...) {
		s, ok := rt.Scope(id)
		if !ok {
			continue
		}
		fmt.Printf("scope #%d %s (height %d, %d renders)\n", id, s.Name(), s.Height(), s.RenderCount())
		if ret, ok := s.CurrentFrame().Root().(*runtime.RenderReturn); ok && ret.Root != nil {
			fmt.Print(formatTree(ret.Root, 1))
		}
	}
	return nil
}
