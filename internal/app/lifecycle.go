package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Component is a long-running part of the process, such as the HTTP server
// or the posts poller. Run blocks until ctx is cancelled or the component fails.
type Component struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunAll runs every component concurrently and returns once all have stopped.
// The first failure cancels the context shared by the others, and that error
// is returned wrapped with the component's name. A nil Run is skipped.
//
// Example:
//
//	err := RunAll(ctx,
//	    Component{Name: "http", Run: srv.Run},
//	    Component{Name: "posts", Run: poller.Run},
//	)
func RunAll(ctx context.Context, components ...Component) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, c := range components {
		if c.Run == nil {
			continue
		}

		g.Go(func() error {
			if err := c.Run(ctx); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}

			return nil
		})
	}

	return g.Wait()
}
