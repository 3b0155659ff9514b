// Command kubetui is the process entry point: parses the CLI surface,
// loads the kubeconfig and on-disk config, wires the Bus/Supervisor/Window
// triple together, and runs the render/input/supervisor loop until the
// user quits or a signal arrives. Grounded on the teacher's
// operator/main.go and service/router_go/main.go shutdown shape (signal
// channel + context cancellation), generalized from "one RPC client" to
// "one terminal UI driving a Bus".
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	apikube "github.com/kubetui/kubetui/internal/features/api/kube"
	apiview "github.com/kubetui/kubetui/internal/features/api/view"
	configkube "github.com/kubetui/kubetui/internal/features/config/kube"
	configview "github.com/kubetui/kubetui/internal/features/config/view"
	contextview "github.com/kubetui/kubetui/internal/features/context/view"
	eventkube "github.com/kubetui/kubetui/internal/features/event/kube"
	eventview "github.com/kubetui/kubetui/internal/features/event/view"
	namespaceview "github.com/kubetui/kubetui/internal/features/namespace/view"
	networkkube "github.com/kubetui/kubetui/internal/features/network/kube"
	networkview "github.com/kubetui/kubetui/internal/features/network/view"
	podkube "github.com/kubetui/kubetui/internal/features/pod/kube"
	podlog "github.com/kubetui/kubetui/internal/features/pod/log"
	podview "github.com/kubetui/kubetui/internal/features/pod/view"
	yamlkube "github.com/kubetui/kubetui/internal/features/yaml/kube"
	yamlview "github.com/kubetui/kubetui/internal/features/yaml/view"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/cliargs"
	"github.com/kubetui/kubetui/internal/config"
	"github.com/kubetui/kubetui/internal/kubeconfig"
	"github.com/kubetui/kubetui/internal/kubeerrors"
	"github.com/kubetui/kubetui/internal/logging"
	"github.com/kubetui/kubetui/internal/supervisor"
	"github.com/kubetui/kubetui/internal/ui"
)

func main() {
	args, err := cliargs.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	env := cliargs.LoadEnvironment()

	if args.Subcommand == "completion" {
		if len(args.CompletionArgs) == 0 {
			fmt.Fprintln(os.Stderr, "completion: shell name required (bash|zsh)")
			os.Exit(1)
		}
		if err := cliargs.RunCompletion(args.CompletionArgs[0], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	logger := logging.Init("kubetui", logging.Config{
		Level:   logging.ParseLevel(env.LogFilter),
		LogDir:  env.LogPath,
		LogName: "kubetui",
	})

	kubeconfigPath := kubeconfig.Path(args.Kubeconfig)
	loader, err := kubeconfig.Load(kubeconfigPath)
	if err != nil {
		exitOnConfigError(err)
	}

	if args.Subcommand == "__complete" {
		cliargs.RunDynamicCompletion(args.CompletionArgs, loader.Names(), nil, os.Stdout)
		return
	}

	cfgPath := args.ConfigFile
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		exitOnConfigError(kubeerrors.NewConfigError(kubeerrors.ExitConfigFileInvalid, "loading config %s: %v", cfgPath, err))
	}

	b := bus.New()

	sup := supervisor.New(b, loader, []supervisor.Poller{
		{Name: "pod", Start: podkube.Start},
		{Name: "event", Start: eventkube.Start},
		{Name: "config", Start: configkube.Start},
		{Name: "network", Start: networkkube.Start},
		{Name: "api", Start: apikube.Start},
	})
	sup.SetLogStarter(podlog.Start)
	sup.SetYamlStarter(yamlkube.Start)
	sup.SetNetworkDescriptionStarter(networkkube.StartDescription)
	sup.SetInitialContext(args.Context)
	sup.SetInitialNamespaces(args.Namespaces, args.AllNamespaces)

	podTab := podview.New(sup, cfg)
	eventTab := eventview.New()
	configTab := configview.New(sup)
	networkTab := networkview.New(sup)
	apiTab := apiview.New()
	yamlTab := yamlview.New(sup)

	window := ui.NewWindow([]*ui.Tab{
		podTab.Tab, configTab.Tab, networkTab.Tab, eventTab.Tab, apiTab.Tab, yamlTab.Tab,
	})
	views := []tabView{podTab, eventTab, configTab, networkTab, apiTab, yamlTab}

	window.Dialogs.Register(contextview.New(sup))
	window.Dialogs.Register(podTab.ColumnsDialog())
	window.Dialogs.Register(podview.HelpDialog())
	window.Dialogs.Register(apiTab.ChecklistDialog())
	window.Dialogs.Register(yamlTab.KindPickerDialog())
	window.Dialogs.Register(yamlTab.NamePickerDialog())
	registerNamespaceDialogs(window, sup)

	window.TabAccelerators = []ui.Accelerator{tabScopedAccelerator(window, podTab.Tab.ID(), apiTab.Tab.ID())}
	window.WindowAccelerators = []ui.Accelerator{windowAccelerator(window, sup)}

	screen, err := ui.NewTermScreen(os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "kubetui: starting terminal:", err)
		os.Exit(1)
	}
	if err := screen.EnableMouse(); err != nil {
		logger.Warn("enabling mouse reporting failed", "err", err)
	}
	defer func() {
		_ = screen.DisableMouse()
		_ = screen.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.Watch(ctx, logger, cfgPath, func(config.Config) {
		// Theme/pod-column reload is picked up by the widgets that read cfg
		// on their next render; no state here needs to change eagerly.
	}); err != nil {
		logger.Warn("config hot-reload disabled", "err", err)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	go func() {
		if err := sup.Run(ctx); err != nil {
			logger.Error("supervisor exited", "err", err)
			cancel()
		}
	}()

	inputDone := make(chan struct{})
	go func() {
		defer close(inputDone)
		reader := ui.NewReader(os.Stdin)
		err := reader.Run(func(m bus.Message) error {
			return bus.SendInbound(ctx, b, m)
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("input reader exited", "err", err)
			cancel()
		}
	}()

	runEventLoop(ctx, b, window, screen, views, logger)
}

// tabView is the shared shape every feature's view.Tab exposes, so the
// event loop can broadcast one inbound message to all of them without a
// type switch per feature.
type tabView interface {
	Update(bus.Message) bool
}

// runEventLoop renders once, then alternates between draining Bus.Inbound
// (applying each message to every tab) and applying resolved WindowActions,
// until ctx is done (spec §5 "one OS thread each for UI render ... and
// supervisor"; this module folds render+inbound-drain onto a single
// goroutine since nothing here needs them on separate threads).
func runEventLoop(ctx context.Context, b *bus.Bus, window *ui.Window, screen *ui.TermScreen, views []tabView, logger *slog.Logger) {
	render := func() {
		screen.BeginFrame()
		window.Render(screen)
		if err := screen.EndFrame(); err != nil {
			logger.Warn("frame flush failed", "err", err)
		}
	}
	render()

	in := b.InboundReceiver()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			if applyMessage(window, views, msg) {
				render()
			}
		}
	}
}

// applyMessage routes one inbound message to the UI, reporting whether the
// screen needs a redraw.
func applyMessage(window *ui.Window, views []tabView, msg bus.Message) bool {
	switch msg.Kind {
	case bus.KindUserInput:
		return applyInput(window, views, msg)
	case bus.KindKube, bus.KindError:
		changed := false
		for _, v := range views {
			if v.Update(msg) {
				changed = true
			}
		}
		return changed
	}
	return false
}

func applyInput(window *ui.Window, views []tabView, msg bus.Message) bool {
	switch ev := msg.Input.(type) {
	case ui.KeyEvent:
		return applyWindowAction(window, views, window.OnKey(ev))
	case ui.MouseEvent:
		return applyWindowAction(window, views, window.OnMouse(ev))
	}
	return false
}

// applyWindowAction applies a resolved WindowAction: CloseWindow ends the
// process, UpdateContents re-dispatches its carried Message through the
// same path inbound Kube/Error messages take (spec §4.6 EventResult sum
// type).
func applyWindowAction(window *ui.Window, views []tabView, action ui.WindowAction) bool {
	switch action.Kind {
	case ui.ActionCloseWindow:
		os.Exit(0)
	case ui.ActionUpdateContents:
		return applyMessage(window, views, action.Contents)
	}
	return true
}

// registerNamespaceDialogs builds the single/multi namespace pickers off
// the cluster's currently-known namespace list and registers them; 'n'/'N'
// re-fetch and re-register a fresh copy before opening (kubeconfig.Context
// switches invalidate the prior list).
func registerNamespaceDialogs(window *ui.Window, sup *supervisor.Supervisor) {
	names := namespaceview.RefreshChoices(sup)
	window.Dialogs.Register(namespaceview.NewSingle(sup, names))
	window.Dialogs.Register(namespaceview.NewMulti(sup, names))
}

// tabScopedAccelerator opens a dialog that only makes sense for the
// currently active tab (spec §4.6's tab-level accelerator tier).
func tabScopedAccelerator(window *ui.Window, podTabID, apiTabID string) ui.Accelerator {
	return func(ev ui.KeyEvent) ui.EventResult {
		active := window.ActiveTab()
		if active == nil {
			return ui.Ignore()
		}
		switch {
		case ev.Rune == '?' && active.ID() == podTabID:
			window.Dialogs.Open(podview.HelpDialogID)
			return ui.Nop()
		case ev.Rune == 'o' && active.ID() == podTabID:
			window.Dialogs.Open(podview.ColumnsDialogID)
			return ui.Nop()
		case ev.Rune == 'f' && active.ID() == apiTabID:
			window.Dialogs.Open(apiview.ChecklistDialogID)
			return ui.Nop()
		}
		return ui.Ignore()
	}
}

// windowAccelerator implements the fixed, always-available bindings: quit,
// tab switching by number or Tab/BackTab (spec §4.6: "The active tab is
// selected by number key or Tab/BackTab"), and the context/namespace picker
// dialogs.
func windowAccelerator(window *ui.Window, sup *supervisor.Supervisor) ui.Accelerator {
	return func(ev ui.KeyEvent) ui.EventResult {
		switch {
		case ev.Ctrl && ev.Rune == 'c':
			return ui.WindowActionResult(ui.WindowAction{Kind: ui.ActionCloseWindow})
		case ev.Rune == 'q':
			return ui.WindowActionResult(ui.WindowAction{Kind: ui.ActionCloseWindow})
		case ev.Name == "Tab":
			window.SelectNextTab()
			return ui.Nop()
		case ev.Name == "BackTab":
			window.SelectPrevTab()
			return ui.Nop()
		case ev.Rune >= '1' && ev.Rune <= '6':
			window.SelectTabByIndex(int(ev.Rune - '1'))
			return ui.Nop()
		case ev.Rune == 'c':
			window.Dialogs.Open(contextview.DialogID)
			return ui.Nop()
		case ev.Rune == 'n':
			reregisterNamespaceDialog(window, sup, namespaceview.SingleDialogID)
			window.Dialogs.Open(namespaceview.SingleDialogID)
			return ui.Nop()
		case ev.Rune == 'N':
			reregisterNamespaceDialog(window, sup, namespaceview.MultiDialogID)
			window.Dialogs.Open(namespaceview.MultiDialogID)
			return ui.Nop()
		}
		return ui.Ignore()
	}
}

func reregisterNamespaceDialog(window *ui.Window, sup *supervisor.Supervisor, id string) {
	names := namespaceview.RefreshChoices(sup)
	if id == namespaceview.MultiDialogID {
		window.Dialogs.Register(namespaceview.NewMulti(sup, names))
		return
	}
	window.Dialogs.Register(namespaceview.NewSingle(sup, names))
}

func exitOnConfigError(err error) {
	code := kubeerrors.ExitBadKubeconfig
	var cfgErr *kubeerrors.ConfigError
	if e, ok := err.(*kubeerrors.ConfigError); ok {
		cfgErr = e
		code = cfgErr.Code
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
