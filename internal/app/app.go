// Package app builds the control system from its configuration and runs it
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/navikt/roompanel/internal/api"
	"github.com/navikt/roompanel/internal/clock"
	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/device"
	"github.com/navikt/roompanel/internal/dispatch"
	"github.com/navikt/roompanel/internal/emergency"
	"github.com/navikt/roompanel/internal/logging"
	"github.com/navikt/roompanel/internal/models"
	"github.com/navikt/roompanel/internal/orchestrator"
	"github.com/navikt/roompanel/internal/panel"
	"github.com/navikt/roompanel/internal/platform"
	"github.com/navikt/roompanel/internal/repository"
	"github.com/navikt/roompanel/internal/room"
	"github.com/navikt/roompanel/internal/service"
	"github.com/navikt/roompanel/internal/web"
)

// ScheduleRefreshInterval is how often published schedules are re-read, so
// meetings that have ended leave the panels
const ScheduleRefreshInterval = time.Minute

// App is a running control system: rooms, panels and the HTTP surface
type App struct {
	log      *slog.Logger
	clock    clock.Clock
	loop     *dispatch.Loop
	repo     repository.Repository
	schedule *service.ScheduleService
	platform *platform.ControlSystem
	devices  *device.Registry

	rooms         map[string]*room.Room
	codecs        map[string]*room.SimulatedCodec
	emergencies   []*emergency.ContactClosure
	panels        []*panel.Panel
	orchestrators map[string]*orchestrator.Orchestrator

	hub     *web.Hub
	handler http.Handler
}

// New builds the system described by sys. Nothing runs until Start.
func New(sys *config.System, srv config.ServerConfig, repo repository.Repository, c clock.Clock) (*App, error) {
	a := &App{
		log:           logging.For("app"),
		clock:         c,
		loop:          dispatch.NewLoop(1024, logging.For("dispatch")),
		repo:          repo,
		platform:      platform.New(sys.Platform.DigitalInputs, logging.For("platform")),
		devices:       device.NewRegistry(),
		rooms:         make(map[string]*room.Room),
		codecs:        make(map[string]*room.SimulatedCodec),
		orchestrators: make(map[string]*orchestrator.Orchestrator),
	}
	a.schedule = service.NewScheduleService(repo, c, a.loop, logging.For("schedule"))

	if err := a.buildDevices(sys); err != nil {
		return nil, err
	}
	if err := a.buildRooms(sys); err != nil {
		return nil, err
	}
	if err := a.buildPanels(sys); err != nil {
		return nil, err
	}

	a.hub = web.NewHub(a, a.loop, logging.For("web"))
	mux := api.SetupRoutes(api.Dependencies{
		Schedule:      a.schedule,
		Rooms:         a,
		Inputs:        a.platform,
		Loop:          a.loop,
		WebhookSecret: srv.WebhookSecret,
		Auth:          srv.Auth,
	})
	a.handler = web.SetupRoutes(mux, a.hub)
	return a, nil
}

func (a *App) buildDevices(sys *config.System) error {
	for _, spec := range sys.Devices {
		d, err := device.NewSimulated(spec, logging.For("device"))
		if err != nil {
			return err
		}
		if err := a.devices.Add(d); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) buildRooms(sys *config.System) error {
	log := logging.For("room")
	for _, rc := range sys.Rooms {
		sources, err := a.resolveSources(sys.SourceLists[rc.SourceList])
		if err != nil {
			return fmt.Errorf("room %s: %w", rc.Key, err)
		}

		var codec room.Codec
		if rc.Codec != nil {
			c := room.NewSimulatedCodec(rc.Codec.Key, rc.Codec.Name, a.schedule.Schedule(rc.Key), log)
			a.codecs[rc.Key] = c
			codec = c
		}
		var volume device.BasicVolume
		if rc.Volume != nil {
			volume = device.NewAmplifier(rc.Volume.Key, rc.Volume.Level, log)
		}

		r := room.New(room.Config{
			Key:                    rc.Key,
			Name:                   rc.Name,
			LogoURL:                rc.LogoURL,
			SourceListKey:          rc.SourceList,
			DefaultPresentRoute:    rc.DefaultPresentRoute,
			WarmupTime:             rc.WarmupTime(),
			CooldownTime:           rc.CooldownTime(),
			ShutdownPromptSeconds:  rc.ShutdownPromptSeconds,
			ShutdownVacancySeconds: rc.ShutdownVacancySeconds,
		}, sources, codec, volume, a.clock, a.loop, log)
		a.rooms[rc.Key] = r

		if rc.Emergency != nil {
			e, err := emergency.NewContactClosure(rc.Key+"-emergency", *rc.Emergency, r, a.platform, logging.For("emergency"))
			if err != nil {
				return err
			}
			a.emergencies = append(a.emergencies, e)
		}
		a.log.Info("room built", "room", rc.Key, "sources", len(sources), "codec", rc.Codec != nil, "emergency", rc.Emergency != nil)
	}
	return nil
}

// resolveSources copies list and attaches the source devices
func (a *App) resolveSources(list models.SourceList) (models.SourceList, error) {
	sources := make(models.SourceList, len(list))
	for key, item := range list {
		if item.SourceKey != "" {
			d, ok := a.devices.Get(item.SourceKey)
			if !ok {
				return nil, fmt.Errorf("source %s: unknown device %q", key, item.SourceKey)
			}
			item.SourceDevice = d
		}
		sources[key] = item
	}
	return sources, nil
}

func (a *App) buildPanels(sys *config.System) error {
	for _, pc := range sys.Panels {
		loc, err := pc.Location()
		if err != nil {
			return fmt.Errorf("panel %s: %w", pc.Key, err)
		}

		p := panel.New(pc.Key)
		o := orchestrator.New(p, orchestrator.Config{
			SourceListCapacity:  pc.SourceListCapacity,
			MeetingListCapacity: pc.MeetingListCapacity,
			Location:            loc,
		}, a.devices.Capabilities, a.clock, a.loop, logging.For("orchestrator").With("panel", pc.Key))

		if r, ok := a.rooms[pc.DefaultRoom]; ok {
			o.SetCurrentRoom(r)
		}
		o.Show()

		a.panels = append(a.panels, p)
		a.orchestrators[pc.Key] = o
	}
	return nil
}

// Handler returns the HTTP surface: API and panel transports
func (a *App) Handler() http.Handler { return a.handler }

// Loop returns the dispatch loop every room and panel callback runs on
func (a *App) Loop() *dispatch.Loop { return a.loop }

// Schedule returns the schedule service
func (a *App) Schedule() *service.ScheduleService { return a.schedule }

// ControlSystem returns the digital inputs
func (a *App) ControlSystem() *platform.ControlSystem { return a.platform }

// Rooms returns the rooms ordered by key
func (a *App) Rooms() []*room.Room {
	keys := make([]string, 0, len(a.rooms))
	for k := range a.rooms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rooms := make([]*room.Room, 0, len(keys))
	for _, k := range keys {
		rooms = append(rooms, a.rooms[k])
	}
	return rooms
}

// Room returns the room with the given key
func (a *App) Room(key string) (*room.Room, bool) {
	r, ok := a.rooms[key]
	return r, ok
}

// Codec returns the call device of the room, if it has one
func (a *App) Codec(roomKey string) (*room.SimulatedCodec, bool) {
	c, ok := a.codecs[roomKey]
	return c, ok
}

// Panels returns the panels in configuration order
func (a *App) Panels() []*panel.Panel { return a.panels }

// Panel returns the panel with the given key
func (a *App) Panel(key string) (*panel.Panel, bool) {
	for _, p := range a.panels {
		if p.Key() == key {
			return p, true
		}
	}
	return nil, false
}

// Orchestrator returns the room UI of the panel
func (a *App) Orchestrator(panelKey string) (*orchestrator.Orchestrator, bool) {
	o, ok := a.orchestrators[panelKey]
	return o, ok
}

// Start runs the dispatch loop and publishes the stored schedules. Both stop
// when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	go a.loop.Run(ctx)

	if err := a.schedule.RefreshAll(ctx); err != nil {
		a.log.Error("initial schedule load failed", "error", err)
	}
	a.scheduleRefresh(ctx)
}

func (a *App) scheduleRefresh(ctx context.Context) {
	a.clock.AfterFunc(ScheduleRefreshInterval, func() {
		if ctx.Err() != nil {
			return
		}
		if err := a.schedule.RefreshAll(ctx); err != nil {
			a.log.Warn("schedule refresh failed", "error", err)
		}
		a.scheduleRefresh(ctx)
	})
}

// Run starts the system and serves HTTP on addr until ctx is cancelled
func (a *App) Run(ctx context.Context, addr string) error {
	a.Start(ctx)

	server := &http.Server{
		Addr:         addr,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for long-lived panel connections
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.log.Info("starting roompanel server", "addr", addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		a.Close()
		return fmt.Errorf("error starting server: %w", err)

	case <-ctx.Done():
		a.log.Info("shutting down server")

		// Close panel connections first so Shutdown does not wait on them
		a.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			errs = append(errs, fmt.Errorf("error shutting down server: %w", err))
		}
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
		a.log.Info("server gracefully stopped")
		return errors.Join(errs...)
	}
}

// Close releases the emergency inputs, panel connections and storage
func (a *App) Close() error {
	for _, e := range a.emergencies {
		e.Close()
	}
	a.hub.Close()
	if err := a.repo.Close(); err != nil {
		return fmt.Errorf("error closing storage: %w", err)
	}
	return nil
}
