package main

import (
	"context"
	"flag"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/pkg/api"
	"github.com/dixieflatline76/Recrop/pkg/hotkey"
	"github.com/dixieflatline76/Recrop/ui"
	"github.com/dixieflatline76/Recrop/util/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFile := flag.String("config", "", "path to the bridge config file (default ~/.recrop/config.toml)")
	bridge := flag.Bool("bridge", false, "serve the browser bridge even if disabled in preferences")
	flag.Parse()

	ok, err := acquireLock()
	if err != nil {
		log.Fatalf("Failed to acquire instance lock: %v", err)
	}
	if !ok {
		log.Printf("Another instance of %s is already running.", config.AppName)
		return
	}
	defer releaseLock()

	a := app.NewWithID(config.AppID)
	ra, err := ui.NewRecropApp(a)
	if err != nil {
		log.Fatalf("Failed to start %s: %v", config.AppName, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g errgroup.Group
	var server *api.Server
	if *bridge || ra.Config().GetBridgeEnabled() {
		server, err = newBridge(ctx, ra, *configFile)
		if err != nil {
			log.Fatalf("Failed to set up the bridge: %v", err)
		}
		g.Go(server.Start)
	}

	stopHotkeys := func() {}
	a.Lifecycle().SetOnStarted(func() {
		stopHotkeys = hotkey.StartListeners(hotkey.Actions{
			OpenImage:   func() { fyne.Do(ra.Host().Choose) },
			Preferences: func() { fyne.Do(ra.CreatePreferencesWindow) },
		})
	})

	ra.Run()
	stopHotkeys()

	cancel()
	if server != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := server.Stop(stopCtx); err != nil {
			log.Printf("Bridge shutdown: %v", err)
		}
	}
	if err := g.Wait(); err != nil {
		log.Printf("Bridge stopped with error: %v", err)
	}
}

// newBridge loads the bridge config, keeps it reloaded until ctx is done and puts a
// guard in front of every connected page.
func newBridge(ctx context.Context, ra *ui.RecropApp, filename string) (*api.Server, error) {
	if filename == "" {
		var err error
		if filename, err = config.GetFilename(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(filename)
	if err != nil {
		return nil, err
	}

	server := api.NewServer(cfg.Bridge, func(c *api.Conn) func() {
		var done func()
		fyne.DoAndWait(func() {
			guard, err := ra.AttachInput(c.Input())
			if err != nil {
				log.Printf("Failed to attach to page %s: %v", c.ID(), err)
				return
			}
			done = guard.Close
		})
		return done
	}, api.WithDispatcher(fyne.DoAndWait))

	if err := config.Watch(ctx, filename, func(c *config.Config) {
		server.SetConfig(c.Bridge)
	}); err != nil {
		log.Printf("Config changes will need a restart: %v", err)
	}
	return server, nil
}
