package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/txtx/txtx-sub001/formatter"
	"github.com/txtx/txtx-sub001/lint"
	"github.com/txtx/txtx-sub001/linter"
	"github.com/txtx/txtx-sub001/manifest"
)

// watchDebounce groups the events of one editor save.
const watchDebounce = 100 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	opts := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "watch [runbook...]",
		Short: "Validate runbooks again whenever workspace files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatter.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			w := &watcher{
				app:    a,
				names:  args,
				strict: opts.strict,
				out:    cmd.OutOrStdout(),
				format: format,
				opts:   a.printerOptions(opts),
			}
			if err := w.reload(cmd.Context()); err != nil {
				return err
			}
			w.lint(cmd.Context())

			fsw, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer fsw.Close()
			if err := watchDirs(fsw, w.root()); err != nil {
				return err
			}
			a.logger.Info("watching workspace", "dir", w.root())

			watchLoop(cmd.Context(), fsw.Events, fsw.Errors, watchDebounce, a.logger, w.handle)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}

// watcher re-lints runbooks on file changes.
type watcher struct {
	app    *app
	names  []string
	strict bool
	out    io.Writer
	format formatter.Format
	opts   []formatter.Option

	analyzer *linter.Analyzer
}

func (w *watcher) reload(ctx context.Context) error {
	an, err := w.app.analyzer(ctx, w.strict)
	if err != nil {
		return err
	}
	w.analyzer = an
	return nil
}

// root is the watched directory: the manifest directory when there is one.
func (w *watcher) root() string {
	if m := w.analyzer.Manifest(); m != nil {
		return m.Dir()
	}
	return w.app.dir
}

func (w *watcher) lint(ctx context.Context) {
	reports, err := lintRunbooks(ctx, w.analyzer, w.names)
	if perr := formatter.New(w.out, w.format, w.opts...).Print(reports); perr != nil {
		w.app.logger.Error("print reports", "error", perr)
	}
	if err != nil {
		fmt.Fprintln(w.out, "Error:", err)
	}
}

// handle re-lints after a batch of changes. Manifest and config changes
// rebuild the analyzer; runbook changes only drop cached results.
func (w *watcher) handle(ctx context.Context, changed []string) {
	rebuild := false
	for _, path := range changed {
		base := filepath.Base(path)
		if base == manifest.DefaultFileName || isConfigFile(base) {
			rebuild = true
		}
	}

	if rebuild {
		if err := w.reload(ctx); err != nil {
			fmt.Fprintln(w.out, "Error:", err)
			return
		}
	} else {
		w.analyzer.Reset()
	}
	fmt.Fprintf(w.out, "\n[%s] %d file(s) changed\n", time.Now().Format("15:04:05"), len(changed))
	w.lint(ctx)
}

func isConfigFile(base string) bool {
	for _, name := range lint.DefaultConfigFiles {
		if base == name {
			return true
		}
	}
	return false
}

// relevant reports whether a change to path can affect lint results.
func relevant(path string) bool {
	base := filepath.Base(path)
	return filepath.Ext(path) == linter.RunbookExt || base == manifest.DefaultFileName || isConfigFile(base)
}

// watchDirs adds root and its subdirectories, skipping hidden ones.
func watchDirs(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// watchLoop collects relevant events and calls handle once they settle
// for debounce. It returns when ctx is done or a channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration, logger hclog.Logger, handle func(context.Context, []string)) {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := map[string]struct{}{}
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !relevant(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			pending = map[string]struct{}{}
			handle(ctx, changed)

		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
