package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framecast/framecast/artwork"
	"github.com/framecast/framecast/engine"
	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/log"
	"github.com/framecast/framecast/mpris"
	"github.com/framecast/framecast/platform"
	"github.com/framecast/framecast/player"
	"github.com/framecast/framecast/session"
	"github.com/framecast/framecast/syncloop"
	"github.com/framecast/framecast/throttle"
	"github.com/framecast/framecast/tui"
	"github.com/framecast/framecast/unlock"
	"github.com/spf13/viper"
)

func hours(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Hour
}

// app is one playback session with everything it owns.
type app struct {
	video      string
	metadata   session.Metadata
	total      int
	player     *player.MPV
	session    session.Session
	store      *artwork.Store
	prefetcher *artwork.Prefetcher
	engine     *engine.Engine
}

// resolveTotal returns the configured sequence length, detecting it from a local directory when unset.
func resolveTotal(src artwork.Source) (int, error) {
	total := viper.GetInt(key.FramesTotal)
	if total > 0 {
		return total, nil
	}

	if src.IsRemote() {
		return 0, fmt.Errorf("%s must be set when frames are fetched from %s", key.FramesTotal, src)
	}

	return artwork.CachedCountFrames(src.Dir, hours(key.FramesCount))
}

// openSession connects to the OS media controls, falling back to a session that drops every update.
func openSession() session.Session {
	if !viper.GetBool(key.SessionMPRIS) {
		return session.NewDiscard()
	}

	s, err := mpris.Connect()
	if err != nil {
		log.Warnf("media session unavailable, continuing without it: %v", err)
		return session.NewDiscard()
	}
	return s
}

func newApp() (*app, error) {
	video := viper.GetString(key.Video)
	if video == "" {
		return nil, fmt.Errorf("no video given: pass it as an argument or set %s", key.Video)
	}

	src, err := artwork.ParseSource(viper.GetString(key.FramesBase))
	if err != nil {
		return nil, err
	}

	total, err := resolveTotal(src)
	if err != nil {
		return nil, err
	}

	profile := platform.Current()
	policy := throttle.Derive(profile, viper.GetInt(key.FramesFPS), throttle.TuningFromConfig())
	log.Infof("platform %s: %+v", profile, policy)

	store := artwork.DefaultStore(hours(key.FramesTTL))

	var cache *artwork.Cache
	prefetchOpts := artwork.PrefetchOptionsFromConfig()
	prefetchOpts.OnDone = func(ref string, err error) {
		cache.MarkLoaded(ref, err)
	}
	prefetcher := artwork.NewPrefetcher(artwork.NewLoader(src, store), prefetchOpts)
	cache = artwork.NewCache(policy.CacheCapacity, prefetcher)

	metadata := session.Metadata{
		Title:  viper.GetString(key.MetadataTitle),
		Artist: viper.GetString(key.MetadataArtist),
		Album:  viper.GetString(key.MetadataAlbum),
	}

	mpv := player.NewMPV(player.OptionsFromConfig())

	var cue player.Cue
	if viper.GetBool(key.UnlockCue) {
		cue = &player.SilentCue{}
	}

	sess := openSession()

	eng := engine.New(engine.Options{
		Player:  mpv,
		Session: sess,
		Sync: syncloop.Options{
			Policy:      policy,
			FPS:         policy.TargetFPS,
			TotalFrames: total,
			Metadata:    metadata,
			Artwork: session.Artwork{
				Sizes: viper.GetString(key.FramesSizes),
				Type:  viper.GetString(key.FramesType),
			},
			Cache:    cache,
			Resolver: artwork.NewResolver(src, store),
		},
		Unlock:    unlock.New(mpv, cue, unlock.OptionsFromConfig()),
		Scheduler: syncloop.FrameSchedulerFromConfig(),
		Autoplay:  viper.GetBool(key.PlayerAutoplay),
	})

	return &app{
		video:      video,
		metadata:   metadata,
		total:      total,
		player:     mpv,
		session:    sess,
		store:      store,
		prefetcher: prefetcher,
		engine:     eng,
	}, nil
}

// run plays until the engine stops. In headless mode only the OS media controls drive playback.
func (a *app) run(ctx context.Context, headless bool) error {
	if err := a.player.Load(a.video, a.metadata.Title); err != nil {
		return fmt.Errorf("load %s: %w", a.video, err)
	}

	if err := a.prefetcher.Start(ctx); err != nil {
		return err
	}
	defer a.prefetcher.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result <- a.engine.Run(ctx)
	}()

	if headless {
		log.Infof("playing %s headless", a.video)
		<-finished
		return ignoreCanceled(<-result)
	}

	err := tui.Run(&tui.Options{
		Controller:  a.engine,
		Title:       a.metadata.Title,
		Artist:      a.metadata.Artist,
		Album:       a.metadata.Album,
		TotalFrames: a.total,
		Done:        result,
	})

	cancel()
	<-finished
	return ignoreCanceled(err)
}

func (a *app) close() {
	if err := a.player.Close(); err != nil {
		log.Warnf("close player: %v", err)
	}
	if err := a.session.Close(); err != nil {
		log.Warnf("close media session: %v", err)
	}
	a.store.CollectGarbage()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func play(ctx context.Context, headless bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return a.run(ctx, headless)
}
