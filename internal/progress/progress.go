package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Reporter handles CLI progress output
type Reporter struct {
	out       io.Writer
	startTime time.Time
	verbose   bool
}

// NewReporter creates a new progress reporter
func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{
		out:       out,
		startTime: time.Now(),
		verbose:   verbose,
	}
}

// StartFile announces the file about to be converted
func (r *Reporter) StartFile(n, total int, path string) {
	fmt.Fprintf(r.out, "[%d/%d] %s\n", n, total, path)
}

// Update shows a sub-progress message, verbose mode only
func (r *Reporter) Update(format string, args ...any) {
	if r.verbose {
		fmt.Fprintf(r.out, "       %s\n", fmt.Sprintf(format, args...))
	}
}

// FileComplete shows where a file's MIDI output went
func (r *Reporter) FileComplete(midiPath string, notes int) {
	fmt.Fprintf(r.out, "       %d notes -> %s\n", notes, midiPath)
}

// Skipped reports a file that was rejected
func (r *Reporter) Skipped(reason string) {
	fmt.Fprintf(r.out, "       skipped: %s\n", reason)
}

// Done announces completion
func (r *Reporter) Done(converted, skipped int) {
	elapsed := time.Since(r.startTime)
	fmt.Fprintf(r.out, "Done! %d converted, %d skipped.\n", converted, skipped)
	fmt.Fprintf(r.out, "Completed in %.1f seconds\n", elapsed.Seconds())
}

// Error announces an error
func (r *Reporter) Error(err error) {
	fmt.Fprintf(r.out, "Error: %s\n", err)
}

// Batch is a progress bar over a fixed number of files
type Batch struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewBatch starts a progress bar for total files
func (r *Reporter) NewBatch(total int) *Batch {
	p := mpb.New(mpb.WithOutput(r.out), mpb.WithWidth(64))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Converting: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 30),
		),
	)
	return &Batch{progress: p, bar: bar}
}

// Increment marks one file finished; started is when it began
func (b *Batch) Increment(started time.Time) {
	b.bar.EwmaIncrement(time.Since(started))
}

// Wait stops the bar and waits for it to render
func (b *Batch) Wait() {
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.progress.Wait()
}
