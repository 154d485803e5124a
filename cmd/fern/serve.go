package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fern-ui/fern/pkg/server"
	"github.com/fern-ui/fern/pkg/vdom"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		dev        bool
		logJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo application",
		Long: `Start a fern server hosting the built-in demo. Use it to check a
deployment end to end: page, client bundle, WebSocket and metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(logJSON)

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Address = addr
			}
			if dev {
				cfg.AllowAnyOrigin = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(cfg, demoView)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides the config file")
	cmd.Flags().BoolVar(&dev, "dev", false, "Allow cross-origin WebSocket upgrades")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log as JSON instead of text")

	return cmd
}

func setupLogging(json bool) {
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		h = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(h))
}

// demoApp is the counter served by `fern serve`.
type demoApp struct {
	vdom.Base
}

func newDemoApp(vdom.Props) vdom.Component { return &demoApp{} }

func (a *demoApp) Render() *vdom.VNode {
	count, _ := a.State()["count"].(int)
	return vdom.Div(vdom.Class("demo"),
		vdom.H1("fern demo"),
		vdom.P(vdom.Textf("Clicked %d times", count)),
		vdom.Button(
			vdom.OnClick(func() {
				a.SetState(vdom.State{"count": count + 1})
			}),
			"Click me",
		),
	)
}

func demoView() *vdom.VNode {
	return vdom.New(vdom.Ctor(newDemoApp), nil)
}
