package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogforge/internal/config"
	"github.com/ziadkadry99/blogforge/internal/events"
	"github.com/ziadkadry99/blogforge/internal/export"
	"github.com/ziadkadry99/blogforge/internal/generator"
	"github.com/ziadkadry99/blogforge/internal/prefs"
	"github.com/ziadkadry99/blogforge/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic...]",
	Short: "Generate a blog post on a topic",
	Long: `Streams a blog post on the given topic from the generation service.
Press Ctrl-C while the post is being written to stop it; the text received
so far is kept.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("tone", "", "tone of the post (overrides config)")
	generateCmd.Flags().String("length", "", "approximate length in words (overrides config)")
	generateCmd.Flags().String("save", "", "save the post to a file or directory (.txt, .md or .html)")
	generateCmd.Flags().Bool("copy", false, "copy the post to the clipboard")
	generateCmd.Flags().Bool("render", false, "render the finished post as styled markdown")
	generateCmd.Flags().BoolP("quiet", "q", false, "show a progress bar instead of streaming text")
	generateCmd.Flags().BoolP("interactive", "i", false, "prompt for topic, tone and length, then offer follow-up actions")
	rootCmd.AddCommand(generateCmd)
}

// generation holds everything a run of the generate command shares.
type generation struct {
	cfg     *config.Config
	theme   prefs.Theme
	driver  *generator.Driver
	surface *ui.Terminal
	track   tracker
	signals chan os.Signal
	req     generator.Request

	needTopic bool
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tone, _ := cmd.Flags().GetString("tone")
	length, _ := cmd.Flags().GetString("length")
	savePath, _ := cmd.Flags().GetString("save")
	doCopy, _ := cmd.Flags().GetBool("copy")
	render, _ := cmd.Flags().GetBool("render")
	quiet, _ := cmd.Flags().GetBool("quiet")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if tone == "" {
		tone = string(cfg.Tone)
	}
	if !config.ValidTone(config.Tone(tone)) {
		return fmt.Errorf("invalid tone %q", tone)
	}
	if length == "" {
		length = cfg.Length
	}
	if !config.ValidLength(length) {
		return fmt.Errorf("invalid length %q: must be a positive number of words", length)
	}

	req := generator.Request{Topic: strings.Join(args, " "), Tone: tone, Length: length}
	if interactive {
		if req, err = promptRequest(req); err != nil {
			return err
		}
	}

	store, closeDB, err := openEventStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: analytics disabled: %v\n", err)
	}
	defer closeDB()

	g := &generation{
		cfg:     cfg,
		theme:   currentTheme(),
		track:   tracker{store: store},
		signals: make(chan os.Signal, 1),
		req:     req,
	}
	target, _ := strconv.Atoi(req.Length)
	g.surface = ui.NewTerminal(ui.Options{
		Theme:   g.theme,
		Quiet:   quiet || render,
		Target:  target,
		TTY:     ui.IsTerminal(os.Stderr),
		OnFocus: func() { g.needTopic = true },
	})

	opts := []generator.Option{
		generator.WithAppID(cfg.AppID),
		generator.WithLogger(logger),
	}
	if store != nil {
		opts = append(opts, generator.WithTracker(store))
	}
	g.driver = generator.NewDriver(newTransport(cfg), g.surface, opts...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go g.driver.Run(ctx)

	signal.Notify(g.signals, os.Interrupt)
	defer signal.Stop(g.signals)

	g.driver.Submit(req)
	out, err := g.await(ctx)
	if err != nil {
		return err
	}

	if interactive {
		return g.interactiveLoop(ctx, out)
	}

	if quiet || render {
		g.print(out.Text, render)
	}
	if savePath != "" {
		g.save(savePath, out.Text)
	}
	if doCopy {
		g.copy(out.Text)
	}

	switch out.Kind {
	case generator.OutcomeError, generator.OutcomeWarning:
		if errors.Is(out.Err, generator.ErrValidation) {
			return out.Err
		}
		if out.Err != nil {
			return fmt.Errorf("generation failed: %w", out.Err)
		}
		return errors.New(out.Message)
	}
	return nil
}

// await waits for the next outcome. Ctrl-C in the meantime stops the
// active generation, which itself settles an outcome.
func (g *generation) await(ctx context.Context) (generator.Outcome, error) {
	for {
		select {
		case <-g.signals:
			logger.Debug().Msg("interrupt: stopping generation")
			g.driver.Stop()
		case out := <-g.driver.Outcomes():
			return out, nil
		case <-ctx.Done():
			return generator.Outcome{}, ctx.Err()
		}
	}
}

func (g *generation) print(text string, render bool) {
	if render {
		rendered, err := export.RenderTerminal(text, g.theme, terminalWidth())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering markdown: %v\n", err)
		}
		text = rendered
	}
	fmt.Print(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		fmt.Println()
	}
}

func (g *generation) save(target, text string) {
	path, err := export.Save(target, g.req.Topic, text)
	switch {
	case errors.Is(err, export.ErrNoContent):
		g.surface.ReportOutcome(generator.OutcomeWarning, "No content to download")
	case err != nil:
		g.surface.ReportOutcome(generator.OutcomeError, err.Error())
	default:
		g.surface.ReportOutcome(generator.OutcomeSuccess, "Content downloaded successfully!")
		g.surface.Notice("%s", path)
		g.track.track(events.ContentDownloaded, map[string]any{"path": path})
	}
}

func (g *generation) copy(text string) {
	err := export.Copy(text)
	switch {
	case errors.Is(err, export.ErrNoContent):
		g.surface.ReportOutcome(generator.OutcomeWarning, "No content to copy")
	case err != nil:
		g.surface.ReportOutcome(generator.OutcomeError, err.Error())
	default:
		g.surface.ReportOutcome(generator.OutcomeSuccess, "Content copied to clipboard!")
		g.track.track(events.ContentCopied, nil)
	}
}

const (
	actionRegenerate = "Regenerate"
	actionNewTopic   = "New topic"
	actionCopy       = "Copy to clipboard"
	actionDownload   = "Download"
	actionClear      = "Clear output"
	actionQuit       = "Quit"
)

// interactiveLoop offers follow-up actions on the finished post until the
// user quits.
func (g *generation) interactiveLoop(ctx context.Context, last generator.Outcome) error {
	for {
		if g.needTopic {
			g.needTopic = false
			req, err := promptRequest(generator.Request{Tone: g.req.Tone, Length: g.req.Length})
			if err != nil {
				return quitOnInterrupt(err)
			}
			g.req = req
			g.driver.Submit(req)
			if last, err = g.await(ctx); err != nil {
				return err
			}
			continue
		}

		sel := promptui.Select{
			Label: fmt.Sprintf("%q (%d words)", g.req.Topic, last.Words),
			Items: []string{actionRegenerate, actionNewTopic, actionCopy, actionDownload, actionClear, actionQuit},
		}
		_, action, err := sel.Run()
		if err != nil {
			return quitOnInterrupt(err)
		}

		_, text, words, err := g.driver.Snapshot(ctx)
		if err != nil {
			return err
		}
		last.Words = words

		switch action {
		case actionRegenerate:
			g.driver.Regenerate(g.req)
			if last, err = g.await(ctx); err != nil {
				return err
			}
		case actionNewTopic:
			g.needTopic = true
		case actionCopy:
			g.copy(text)
		case actionDownload:
			g.save(".", text)
		case actionClear:
			g.driver.Clear()
			// Wait for the clear to be applied before prompting again.
			if _, _, last.Words, err = g.driver.Snapshot(ctx); err != nil {
				return err
			}
		case actionQuit:
			return nil
		}
	}
}

// promptRequest fills in the topic and lets the user adjust tone and
// length.
func promptRequest(req generator.Request) (generator.Request, error) {
	if strings.TrimSpace(req.Topic) == "" {
		topic, err := config.PromptTopic()
		if err != nil {
			return req, err
		}
		req.Topic = topic
	}
	tone, err := config.PromptTone(config.Tone(req.Tone))
	if err != nil {
		return req, err
	}
	req.Tone = string(tone)
	if req.Length, err = config.PromptLength(req.Length); err != nil {
		return req, err
	}
	return req, nil
}

func quitOnInterrupt(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return err
}
