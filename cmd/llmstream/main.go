// Llmstream sends a single prompt to whichever LLM vendor has credentials
// configured and streams the response to stdout as it is generated. Content
// piped on stdin is appended to the prompt, separated by a blank line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/germanamz/llmstream/pkg/llm"
)

func main() {
	envPath := flag.String("env", ".env", "path to .env file with API keys")
	configPath := flag.String("config", "", "path to YAML configuration file")
	verbose := flag.Bool("v", false, "log prompts, responses, and skipped chunks to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: llmstream [flags] <prompt>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Arg(0), stdinContent(), *envPath, *configPath, *verbose, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "llmstream:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, prompt, content, envPath, configPath string, verbose bool, out io.Writer) error {
	if err := loadDotEnv(envPath); err != nil {
		return err
	}

	var log *slog.Logger
	if verbose {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	client, ok := llm.FromEnv(nil, log)
	if !ok {
		return fmt.Errorf("no LLM credentials found: set %s or %s", llm.EnvGeminiAPIKey, llm.EnvMistralAPIKey)
	}

	var cfg llm.Config
	if configPath != "" {
		var err error
		if cfg, err = llm.LoadConfig(configPath); err != nil {
			return err
		}
	}
	cfg.Apply(client)

	stream, err := client.Stream(ctx, prompt, content, cfg.GenerationConfig())
	if err != nil {
		return err
	}

	for fragment := range stream {
		fmt.Fprint(out, fragment)
	}
	fmt.Fprintln(out)

	// An interrupted stream is not an error; the partial response has
	// already been printed.
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// stdinContent returns piped stdin as the content argument. An interactive
// terminal yields no content.
func stdinContent() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}

	return strings.TrimRight(string(data), "\n")
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
