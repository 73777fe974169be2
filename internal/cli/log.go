// Package cli implements the workcard command-line interface.
//
// The CLI renders record files to cards, runs the HTTP service, and manages
// the asset cache. It is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Render a JSON or YAML record file to PNG cards
//   - serve: Serve the renderer over HTTP
//   - themes: List theme variants
//   - cache: Clear or locate the asset cache
//
// # Configuration
//
// Settings come from a TOML file (--config, default
// ~/.config/workcard/config.toml) with [render], [fetch], [cache], [store]
// and [server] sections. Flags that are set explicitly win over the file.
//
// # Logging
//
// The persistent --verbose (-v) flag switches the logger to debug level,
// which also logs every finished record of a batch. The logger reaches
// commands through context.Context.
//
// # Example
//
//	import "github.com/matzehuels/workcard/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/workcard/pkg/observability"
)

// newLogger returns a timestamped logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// batchProgress reports a batch render as it runs: the spinner shows a
// running count and each finished record is logged at debug level.
type batchProgress struct {
	observability.NoopRenderHooks
	logger  *log.Logger
	spinner *Spinner
	total   int
	start   time.Time
	done    atomic.Int32
	failed  atomic.Int32
}

func newBatchProgress(l *log.Logger, s *Spinner, total int) *batchProgress {
	s.SetMessage(progressMessage(0, total))
	return &batchProgress{logger: l, spinner: s, total: total, start: time.Now()}
}

func progressMessage(done, total int) string {
	return fmt.Sprintf("Rendering cards %d/%d", done, total)
}

func (p *batchProgress) OnRenderComplete(ctx context.Context, id int64, d time.Duration, err error) {
	n := p.done.Add(1)
	if err != nil {
		p.failed.Add(1)
		p.logger.Debug("render failed", "id", id, "error", err)
	} else {
		p.logger.Debug("rendered", "id", id, "duration", d.Round(time.Millisecond))
	}
	p.spinner.SetMessage(progressMessage(int(n), p.total))
}

// finish logs the batch summary with the elapsed time.
// Example: "Rendered 41 of 42 cards (1.234s)"
func (p *batchProgress) finish() {
	ok := int(p.done.Load() - p.failed.Load())
	p.logger.Infof("Rendered %d of %d cards (%s)", ok, p.total, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
