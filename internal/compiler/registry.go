package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Registry manages the compilation units of one invocation. Every MiniJava
// file is a self-contained program, so units are compiled independently and
// a file named twice is compiled once.
type Registry struct {
	paths   []string           // absolute paths in command-line order
	results map[string]*Result // absolute path -> compilation result
	mu      sync.Mutex
}

// NewRegistry creates a registry for the given files. Paths are resolved to
// absolute paths and duplicates are dropped.
func NewRegistry(paths []string) (*Registry, error) {
	r := &Registry{results: make(map[string]*Result)}
	seen := make(map[string]bool)
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		if seen[absPath] {
			continue
		}
		seen[absPath] = true
		r.paths = append(r.paths, absPath)
	}
	return r, nil
}

// CheckAll compiles every registered file, at most opts.Workers at a time.
// Workers is also passed down to each file's class checking. A read failure
// or a cancelled context aborts the whole run.
func (r *Registry) CheckAll(ctx context.Context, opts Options) error {
	ctx, span := tracer.Start(ctx, "compiler.CheckAll",
		trace.WithAttributes(attribute.Int("files", len(r.paths))),
	)
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for _, path := range r.paths {
		path := path
		g.Go(func() error {
			fileOpts := opts
			fileOpts.File = path
			res, err := CheckFile(gctx, path, fileOpts)
			if err != nil {
				return err
			}
			r.mu.Lock()
			r.results[path] = res
			r.mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// Paths returns the registered absolute paths in registration order
func (r *Registry) Paths() []string {
	return r.paths
}

// Result returns the compilation result for an absolute path, or nil when
// the file has not been compiled
func (r *Registry) Result(path string) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[path]
}

// ExitCode returns the exit code of the first file, in registration order,
// that failed
func (r *Registry) ExitCode() int {
	for _, p := range r.paths {
		if res := r.Result(p); res != nil {
			if code := res.ExitCode(); code != ExitOK {
				return code
			}
		}
	}
	return ExitOK
}
