package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/spotlight/internal/audio"
	"github.com/tomz197/spotlight/internal/config"
	"github.com/tomz197/spotlight/internal/loop"
	"github.com/tomz197/spotlight/internal/loop/client"
	gameconfig "github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return err
	}

	// The terminal belongs to the game, so diagnostics go to a file when
	// one is configured and are dropped otherwise.
	logger, closeLog, err := newLogger(config.GetEnv("GAME_LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings := gameconfig.FromEnv()
	sound := audio.NewSoundManager()
	if config.GetEnvBool("GAME_AUDIO", true) {
		if err := sound.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		}
	}
	defer sound.Cleanup()

	var runErr error
	switch ui := strings.ToLower(config.GetEnv("GAME_UI", "ansi")); ui {
	case "ansi":
		runErr = playANSI(ctx, settings, sound)
	case "tcell":
		runErr = playTcell(ctx, settings, sound)
	default:
		return fmt.Errorf("unknown GAME_UI %q (want ansi or tcell)", ui)
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func playANSI(ctx context.Context, settings gameconfig.Settings, sound loop.Audio) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return client.Play(ctx, os.Stdin, os.Stdout, client.ClientOptions{
		Settings: settings,
		Audio:    sound,
	})
}

func playTcell(ctx context.Context, settings gameconfig.Settings, sound loop.Audio) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	return tui.Play(ctx, screen, loop.Options{
		Settings: settings,
		Audio:    sound,
	})
}

func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "game"})
	return logger, func() { _ = f.Close() }, nil
}
