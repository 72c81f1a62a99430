package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tweetink/internal/cmdlog"
	"tweetink/internal/config"
	"tweetink/internal/jobs"
	"tweetink/internal/output"
	"tweetink/internal/render"
	"tweetink/internal/theme"
	"tweetink/internal/xclient"
)

func main() {
	args := os.Args[1:]
	cmd := "render"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "render":
		cmdRender(args)
	case "init":
		cmdInit(args)
	case "help":
		printHelp(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		printHelp(os.Stderr)
		os.Exit(2)
	}
}

func printHelp(w io.Writer) {
	theme.PrintBanner(w, "yellow")
	fmt.Fprintln(w, "Usage: tweetink [render] [options]")
	fmt.Fprintln(w, "       tweetink init [-path tweetink.yaml]")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -t, --test            write the canvas to a PNG instead of the display")
	fmt.Fprintln(w, "  -u, --username NAME   account to show (default unsplash)")
	fmt.Fprintln(w, "  -n, --nth N           1 is the latest tweet (default 1)")
	fmt.Fprintln(w, "  -c, --colour COLOUR   accent colour of the panel, red or yellow (default yellow)")
	fmt.Fprintln(w, "      --config PATH     YAML config")
	fmt.Fprintln(w, "      --out PATH        PNG path in test mode (default debug.png)")
	fmt.Fprintln(w, "      --env PATH        dotenv file with credentials (default .env)")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./tweetink.yaml", "path to write config")
	_ = fs.Parse(args)
	if err := config.Save(*path, config.Default()); err != nil {
		fail(err)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner(os.Stdout, "yellow")
	fmt.Println("Config written to:", abs)
}

func cmdRender(args []string) {
	cfg, err := loadSettings(args)
	if err != nil {
		fail(err)
	}
	err = cmdlog.Run("render", func() error { return runRender(context.Background(), cfg) })
	cmdlog.Flush(cfg.Metrics.Textfile)
	if err != nil {
		fail(err)
	}
}

// loadSettings layers defaults, the optional YAML file, the environment and
// the flags that were given explicitly, in that order.
func loadSettings(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		test             bool
		username, colour string
		nth              int
	)
	fs.BoolVar(&test, "test", false, "")
	fs.BoolVar(&test, "t", false, "")
	fs.StringVar(&username, "username", "unsplash", "")
	fs.StringVar(&username, "u", "unsplash", "")
	fs.IntVar(&nth, "nth", 1, "")
	fs.IntVar(&nth, "n", 1, "")
	fs.StringVar(&colour, "colour", "yellow", "")
	fs.StringVar(&colour, "c", "yellow", "")
	cfgPath := fs.String("config", "", "")
	out := fs.String("out", "", "")
	envPath := fs.String("env", ".env", "")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if fs.NArg() > 0 {
		return config.Config{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	if err := config.LoadDotEnv(*envPath); err != nil {
		return config.Config{}, err
	}
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return cfg, err
		}
	} else {
		cfg.ResolveEnv()
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "test", "t":
			if test {
				cfg.Display.Mode = config.ModeFile
			}
		case "username", "u":
			cfg.Account.Username = username
		case "nth", "n":
			cfg.Account.Nth = nth
		case "colour", "c":
			cfg.Display.Colour = colour
		case "out":
			cfg.Display.Output = *out
		}
	})
	return cfg, cfg.Validate()
}

func runRender(ctx context.Context, cfg config.Config) error {
	accent, err := render.ParseAccent(cfg.Display.Colour)
	if err != nil {
		return err
	}
	sink, closeSink, err := openSink(cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	base := xclient.NewHTTPClient(cfg.Credentials.BearerToken)
	var timeline xclient.TimelineSource = base
	if cfg.API.Version == "v1" {
		c := cfg.Credentials
		if c.ConsumerKey == "" || c.ConsumerSecret == "" || c.AccessToken == "" || c.AccessSecret == "" {
			return errors.New("missing X_CONSUMER_KEY, X_CONSUMER_SECRET, X_ACCESS_TOKEN or X_ACCESS_SECRET")
		}
		timeline = xclient.NewV1Client(base, c.ConsumerKey, c.ConsumerSecret, c.AccessToken, c.AccessSecret)
	} else if cfg.Credentials.BearerToken == "" {
		return errors.New("missing X_BEARER_TOKEN")
	}

	l := cfg.Layout
	err = jobs.RenderOnce(ctx, jobs.Deps{Timeline: timeline, Media: base, Sink: sink}, jobs.RenderOptions{
		Username: cfg.Account.Username,
		Nth:      cfg.Account.Nth,
		Count:    cfg.API.Count,
		Layout: render.Options{
			TweetFont:       l.TweetFont,
			AccountFont:     l.AccountFont,
			StatsFont:       l.StatsFont,
			TweetFontSize:   l.TweetFontSize,
			AccountFontSize: l.AccountFontSize,
			StatsFontSize:   l.StatsFontSize,
			BannerHeight:    l.BannerHeight,
			BorderThickness: l.BorderThickness,
			Padding:         l.Padding,
			RetweetIcon:     l.RetweetIcon,
			LikeIcon:        l.LikeIcon,
			Accent:          accent,
			Dither:          l.Dither,
		},
	})
	return explain(err, cfg.API.Version)
}

// explain adds a hint about which credentials to check when X rejects them.
func explain(err error, version string) error {
	if !xclient.IsAuthError(err) {
		return err
	}
	if version == "v1" {
		return fmt.Errorf("%w (check X_CONSUMER_KEY, X_CONSUMER_SECRET, X_ACCESS_TOKEN and X_ACCESS_SECRET)", err)
	}
	return fmt.Errorf("%w (check X_BEARER_TOKEN)", err)
}

func openSink(cfg config.Config) (output.Sink, func(), error) {
	nop := func() {}
	border, err := output.ParseBorder(cfg.Display.Border)
	if err != nil {
		return nil, nop, err
	}
	switch cfg.Display.Mode {
	case config.ModeFile:
		return output.FileSink{Path: cfg.Display.Output, Width: cfg.Display.Width, Height: cfg.Display.Height}, nop, nil
	case config.ModeQuote0:
		q, err := output.NewQuote0(cfg.Quote0.Token, cfg.Quote0.DeviceID, cfg.Quote0.BaseURL, nil)
		if err != nil {
			return nil, nop, err
		}
		q.Border = border
		return q, nop, nil
	default:
		dev, err := output.OpenInky(output.InkyOptions{
			Model:    cfg.Inky.Model,
			Colour:   cfg.Display.Colour,
			SPIPort:  cfg.Inky.SPIPort,
			DCPin:    cfg.Inky.DCPin,
			ResetPin: cfg.Inky.ResetPin,
			BusyPin:  cfg.Inky.BusyPin,
		})
		if err != nil {
			return nil, nop, err
		}
		return output.DisplaySink{Display: dev, Border: border}, func() { _ = dev.Close() }, nil
	}
}
