package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/present3d/internal/config"
	"github.com/ivlev/present3d/internal/engine"
	"github.com/ivlev/present3d/internal/p3d"
	"github.com/ivlev/present3d/internal/system"
	"github.com/ivlev/present3d/internal/viewer"
)

var buildVersion = "dev"

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	system.InitResourceLimits()

	configPtr := flag.String("config", "", "Config file (.yaml or .toml)")
	inputPtr := flag.String("input", "", "Presentation file (.p3d or .xml); default: newest file in presentations/")
	pathsPtr := flag.String("paths", "", "Comma-separated media search directories")
	optionsPtr := flag.String("options", "", "Comma-separated reader options, e.g. holding_slide")
	loopPtr := flag.Bool("loop", false, "Loop back to the first slide after the last")
	autoPtr := flag.Bool("auto", false, "Start auto-stepping")
	timePerSlidePtr := flag.Float64("time-per-slide", 0, "Auto-step delay in seconds when slides set none")
	keyIntervalPtr := flag.Float64("key-interval", 0.25, "Minimum seconds between accepted key presses")
	widthPtr := flag.Int("width", 1280, "Window width")
	heightPtr := flag.Int("height", 1024, "Window height")
	headlessPtr := flag.Bool("headless", false, "Run without a window")
	hzPtr := flag.Int("hz", 60, "Headless frame rate")
	ticksPtr := flag.Uint64("ticks", 0, "Headless frames to run (0: until interrupted)")
	watchPtr := flag.Bool("watch", false, "Reload when the presentation or its media change")
	outlinePtr := flag.String("outline", "", "Write the YAML outline to this path and exit (\"auto\": outlines/<name>_<time>.yaml, skipped when unchanged)")
	preloadPtr := flag.Int("preload", 0, "Decode images with this many workers before building")
	statsPtr := flag.Bool("stats", false, "Print a session report on exit")
	logLevelPtr := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
		cfg = loaded
		fmt.Printf("[*] Config: %s\n", *configPtr)
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "paths":
			cfg.SearchPaths = append(cfg.SearchPaths, splitList(*pathsPtr)...)
		case "options":
			cfg.Options = append(cfg.Options, splitList(*optionsPtr)...)
		case "loop":
			cfg.Loop = *loopPtr
		case "auto":
			cfg.AutoStep = *autoPtr
		case "time-per-slide":
			cfg.TimePerSlide = *timePerSlidePtr
		case "key-interval":
			cfg.MinKeyInterval = *keyIntervalPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "headless":
			cfg.Headless = *headlessPtr
		case "hz":
			cfg.Hz = *hzPtr
		case "ticks":
			cfg.Ticks = *ticksPtr
		case "watch":
			cfg.Watch = *watchPtr
		case "outline":
			cfg.OutlineOutput = *outlinePtr
		case "preload":
			cfg.PreloadWorkers = *preloadPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		}
	})
	cfg.BuildVersion = buildVersion

	if err := cfg.ExpandPaths(); err != nil {
		log.Fatalf("[-] Path error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestPresentation("presentations")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a .p3d file into presentations/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Selected presentation: %s\n", cfg.InputPath)
	}
	if !p3d.Handled(cfg.InputPath) {
		log.Fatalf("[-] Not a presentation file: %s", cfg.InputPath)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := engine.NewSession(cfg, logger)

	fmt.Println("--- [PRESENT3D] ---")
	fmt.Printf("[*] Presentation: %s\n", cfg.InputPath)
	if cfg.Headless {
		fmt.Printf("[*] Mode: headless @ %d Hz | Ticks: %d\n", cfg.Hz, cfg.Ticks)
	} else {
		fmt.Printf("[*] Mode: window %dx%d\n", cfg.Width, cfg.Height)
	}
	fmt.Println("-------------------")

	if err := session.Load(ctx); err != nil {
		log.Fatalf("[-] Could not load presentation: %v", err)
	}
	if p := session.Presentation(); p.NumSlides() == 0 {
		fmt.Println("[!] The presentation has no slides")
	}

	if cfg.OutlineOutput != "" {
		out := cfg.OutlineOutput
		if out == "auto" {
			out = ""
			if latest, changes, err := session.CompareOutline("outlines"); err == nil {
				if len(changes) == 0 {
					fmt.Printf("[*] Outline unchanged since %s\n", latest)
					return
				}
				fmt.Printf("[*] Changes since %s:\n", latest)
				for _, c := range changes {
					fmt.Printf("    %s\n", c)
				}
			}
		}
		path, err := session.WriteOutline(out, "outlines")
		if err != nil {
			log.Fatalf("[-] Could not write outline: %v", err)
		}
		fmt.Printf("[+++] Success! Outline saved: %s\n", path)
		return
	}

	if cfg.Watch {
		fmt.Printf("[*] Watching %s for changes\n", filepath.Dir(session.File()))
		go func() {
			if err := session.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[!] Watch stopped: %v", err)
			}
		}()
	}

	start := time.Now()
	var runErr error
	if cfg.Headless {
		runErr = session.RunHeadless(ctx)
	} else {
		title := "Present3D"
		if name := session.Presentation().Name; name != "" {
			title += " - " + name
		}
		runErr = viewer.RunWindow(session, title, cfg.Width, cfg.Height)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("[-] Session error: %v", runErr)
	}

	if cfg.ShowStats {
		session.Report(os.Stdout)
	}
	fmt.Printf("[+++] Done in %.2fs\n", time.Since(start).Seconds())
}
