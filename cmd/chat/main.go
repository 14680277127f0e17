// Command chat runs an assessment conversation in the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/ashureev/avika/internal/config"
	"github.com/ashureev/avika/internal/dialogue"
	"github.com/ashureev/avika/internal/extractor"
	"github.com/ashureev/avika/internal/llm"
	"github.com/ashureev/avika/internal/logger"
	"github.com/ashureev/avika/internal/questionnaire"
	"github.com/ashureev/avika/internal/report"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	assistantColor = color.New(color.FgGreen, color.Bold)
	promptColor    = color.New(color.FgCyan)
	noticeColor    = color.New(color.FgYellow, color.Bold)
)

func main() {
	legacy := flag.Bool("legacy", false, "match replies to questions by keyword instead of asking the model")
	listModels := flag.Bool("list-models", false, "list the Gemini models available to GOOGLE_API_KEY and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		color.Red("Error: %v", err)
		fmt.Fprintln(os.Stderr, "Set GOOGLE_API_KEY (or LLM_PROVIDER with its credential) in the environment or a .env file.")
		os.Exit(1)
	}

	// The terminal belongs to the conversation; only errors are logged.
	logCfg := cfg.Logger()
	logCfg.Level, logCfg.Encoding = "error", "console"
	log, err := logger.New(logCfg)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *listModels {
		if err := printModels(ctx, os.Stdout, cfg); err != nil {
			color.Red("Error: %v", err)
			os.Exit(1)
		}
		return
	}

	gen, err := llm.New(cfg.Model(), log)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	sess := dialogue.New(questionnaire.Default(), extractor.New(gen, log), log, dialogue.Options{
		PreserveFollowUp: cfg.Dialogue.PreserveFollowUp,
	})
	if err := run(ctx, os.Stdin, os.Stdout, sess, *legacy); err != nil {
		log.Error("Chat ended with error", zap.Error(err))
		os.Exit(1)
	}
}

// run drives one conversation until the user leaves, input ends, the context
// is cancelled or every question is answered.
func run(ctx context.Context, in io.Reader, out io.Writer, sess *dialogue.Session, legacy bool) error {
	_, _ = assistantColor.Fprintln(out, "Avika: "+sess.Greeting())

	lines, readErr := readLines(ctx, in)
	for {
		_, _ = promptColor.Fprint(out, "You: ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			_, _ = noticeColor.Fprintln(out, "\nChat ended. Thank you for your time!")
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			if err := <-readErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			_, _ = noticeColor.Fprintln(out, "\nChat ended. Thank you for your time!")
			return nil
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if isExit(text) {
			_, _ = noticeColor.Fprintln(out, "Chat ended. Thank you for your time!")
			return nil
		}

		var reply string
		if legacy {
			reply = sess.SubmitLegacy(ctx, text)
		} else {
			reply = sess.Submit(ctx, text)
		}
		_, _ = assistantColor.Fprintln(out, "Avika: "+reply)

		if sess.Store().Complete() {
			_, _ = noticeColor.Fprintln(out, "\nAssessment complete! Thank you for chatting with me.")
			fmt.Fprintln(out)
			return report.Render(out, report.FromStore(sess.Store()))
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The line channel closes at end of input; the scanner error,
// if any, is then delivered on the error channel.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func isExit(text string) bool {
	switch strings.ToLower(text) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

func printModels(ctx context.Context, out io.Writer, cfg *config.Config) error {
	if cfg.LLM.GoogleAPIKey == "" {
		return errors.New("listing models requires GOOGLE_API_KEY")
	}
	g, err := llm.NewGemini(ctx, cfg.LLM.GoogleAPIKey, cfg.LLM.Model, "", http.DefaultClient)
	if err != nil {
		return err
	}
	models, err := g.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Fprintf(out, "%s\t%s\t%s\n", m.Name, m.DisplayName, strings.Join(m.SupportedActions, ","))
	}
	return nil
}
