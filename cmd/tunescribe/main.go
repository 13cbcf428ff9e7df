package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dygy/tunescribe/internal/audio"
	"github.com/dygy/tunescribe/internal/config"
	"github.com/dygy/tunescribe/internal/conversion"
	"github.com/dygy/tunescribe/internal/exec"
	"github.com/dygy/tunescribe/internal/midi"
	"github.com/dygy/tunescribe/internal/progress"
	"github.com/dygy/tunescribe/internal/server"
	"github.com/dygy/tunescribe/internal/store"
)

var (
	version = "0.1.0"
	cfg     = config.Load()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tunescribe",
	Short: "Convert audio recordings into MIDI files",
	Long: `tunescribe turns WAV, MP3 and M4A recordings (and WEBM browser
recordings, via ffmpeg) into MIDI using the Basic Pitch model.

Pipeline: audio → validate/transcode → Basic Pitch → .mid`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var convertCmd = &cobra.Command{
	Use:   "convert <audio>...",
	Short: "Convert one or more audio files to MIDI",
	Long: `Convert audio files to MIDI. Output goes to the MIDI output
directory as <name>.mid; an existing file with the same name is replaced.

Examples:
  tunescribe convert humming.wav
  tunescribe convert -o out/ take1.webm take2.m4a`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API used by the web client.

Endpoints:
  POST /api/v1/midis        upload audio (multipart field "file")
  GET  /api/v1/midis        list recent conversions
  GET  /api/v1/midis/{id}   download a MIDI file

Example:
  tunescribe serve --port 8080`,
	RunE: runServe,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversions",
	RunE:  runHistory,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show format details of an audio or MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify ffmpeg and Basic Pitch are installed",
	RunE:  runCheck,
}

var (
	verbose      bool
	historyLimit int
)

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(checkCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&cfg.ScriptsDir, "scripts", cfg.ScriptsDir, "Directory containing transcribe.py")
	pf.StringVar(&cfg.PythonPath, "python", cfg.PythonPath, "Python interpreter (default: scripts venv or python3)")
	pf.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary")
	pf.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Conversion history database")
	pf.StringVarP(&cfg.MIDIOutputDir, "output", "o", cfg.MIDIOutputDir, "MIDI output directory")

	convertCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	serveCmd.Flags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "Port to listen on")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of conversions to show")
}

func newLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}

func newRunner() *exec.Runner {
	return exec.NewRunner(cfg.PythonPath, findScriptsDir(cfg.ScriptsDir)).WithFFmpeg(cfg.FFmpegPath)
}

func newGateway(log logrus.FieldLogger) *conversion.Gateway {
	runner := newRunner()

	transcoder := audio.NewFFmpegTranscoder(runner)
	transcoder.Timeout = cfg.TranscodeTimeout

	transcriber := midi.NewTranscriber(runner)
	transcriber.Timeout = cfg.TranscribeTimeout

	return conversion.New(transcoder, transcriber, cfg.MIDIOutputDir, log)
}

func runConvert(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping...")
		cancel()
	}()

	history, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer history.Close()

	gateway := newGateway(log)
	reporter := progress.NewReporter(os.Stdout, verbose)

	var batch *progress.Batch
	if len(args) > 1 {
		batch = reporter.NewBatch(len(args))
	}

	converted, skipped := 0, 0
	for i, path := range args {
		started := time.Now()
		if batch == nil {
			reporter.StartFile(i+1, len(args), path)
		}

		if audio.IsConvertibleFormat(path) {
			reporter.Update("transcoding %s to mp3", path)
		}

		result, err := gateway.ConvertToMidi(ctx, path)
		if err != nil {
			if batch != nil {
				batch.Wait()
			}
			reporter.Error(err)
			return fmt.Errorf("convert %s: %w", path, err)
		}

		if !result.OK() {
			skipped++
			if batch == nil {
				reporter.Skipped(result.Reason)
			}
		} else {
			converted++
			if _, err := history.Record(ctx, path, result.Path, result.Notes); err != nil {
				log.WithError(err).Warn("could not record conversion")
			}
			if batch == nil {
				reporter.FileComplete(result.Path, result.Notes)
			}
		}

		if batch != nil {
			batch.Increment(started)
		}
	}

	if batch != nil {
		batch.Wait()
	}
	reporter.Done(converted, skipped)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	history, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer history.Close()

	srv := server.New(server.Config{
		Port:          cfg.Port,
		MaxUploadSize: cfg.MaxUploadSize,
	}, newGateway(log), history, log)

	fmt.Printf("\n  tunescribe API running at: http://localhost:%d/api/v1/midis\n\n", cfg.Port)
	return srv.Run()
}

func runHistory(cmd *cobra.Command, args []string) error {
	history, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer history.Close()

	records, err := history.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No conversions yet.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tNOTES\tSOURCE\tMIDI")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			r.ID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Notes, r.Source, r.MIDIPath)
	}
	return tw.Flush()
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	if ext := audio.Extension(path); ext == "mid" || ext == "midi" {
		notes, err := midi.ReadNotes(path)
		if err != nil {
			return err
		}
		fmt.Printf("File:   %s\n", path)
		fmt.Printf("Format: midi\n")
		fmt.Printf("Notes:  %d\n", len(notes))
		if len(notes) > 0 {
			last := notes[len(notes)-1]
			for _, n := range notes {
				if n.End() > last.End() {
					last = n
				}
			}
			fmt.Printf("Length: %.2fs\n", last.End())
		}
		return nil
	}

	info, err := audio.Inspect(path)
	if err != nil {
		return err
	}
	fmt.Printf("File:   %s\n", info.Path)
	fmt.Printf("Format: %s\n", info.Format)
	fmt.Printf("Size:   %d bytes\n", info.Size)
	if info.Format == audio.FormatWAV {
		fmt.Printf("Audio:  %d Hz, %d ch, %d-bit\n", info.SampleRate, info.Channels, info.BitDepth)
		fmt.Printf("Length: %.2fs\n", info.Duration.Seconds())
	}
	switch {
	case info.Format.IsSupported():
		fmt.Println("Status: ready for transcription")
	case info.Format == audio.FormatWEBM:
		fmt.Println("Status: will be transcoded to mp3")
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	runner := newRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failed := false
	report := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("  ✗ %s: %v\n", name, err)
			return
		}
		fmt.Printf("  ✓ %s\n", name)
	}

	fmt.Println("Checking external tools:")
	report("ffmpeg ("+runner.FFmpegPath+")", runner.CheckBinary(runner.FFmpegPath))
	report("python ("+runner.PythonPath+")", runner.CheckBinary(runner.PythonPath))
	report("basic_pitch", runner.CheckPythonDependency(ctx, "basic_pitch"))

	script := filepath.Join(runner.ScriptsDir, "transcribe.py")
	if fileExists(script) {
		report(script, nil)
	} else {
		report(script, fmt.Errorf("not found"))
	}

	if failed {
		return fmt.Errorf("some dependencies are missing")
	}
	return nil
}

// findScriptsDir locates the Python scripts directory
func findScriptsDir(configured string) string {
	if dirExists(configured) {
		return configured
	}

	// Check relative to executable
	exe, err := os.Executable()
	if err == nil {
		dir := filepath.Join(filepath.Dir(exe), "scripts", "python")
		if dirExists(dir) {
			return dir
		}
	}

	// Check common development locations
	candidates := []string{
		"./scripts/python",
		"../scripts/python",
		"../../scripts/python",
	}

	for _, c := range candidates {
		if dirExists(c) {
			return c
		}
	}

	return configured
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
