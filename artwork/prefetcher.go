package artwork

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/framecast/framecast/key"
	"github.com/framecast/framecast/log"
	"github.com/spf13/viper"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// PrefetchOptions sizes and paces a Prefetcher.
type PrefetchOptions struct {
	Workers   int
	Queue     int
	PerSecond float64
	Timeout   time.Duration
	OnDone    func(ref string, err error)
}

// PrefetchOptionsFromConfig reads the prefetch section of the configuration.
func PrefetchOptionsFromConfig() PrefetchOptions {
	return PrefetchOptions{
		Workers:   viper.GetInt(key.PrefetchWorkers),
		Queue:     viper.GetInt(key.PrefetchQueue),
		PerSecond: viper.GetFloat64(key.PrefetchPerSecond),
		Timeout:   time.Duration(viper.GetInt(key.PrefetchTimeoutMs)) * time.Millisecond,
	}
}

// Prefetcher loads artwork on a small pool of workers.
// Submissions never block: when the queue is full the reference is dropped.
type Prefetcher struct {
	loader  Loader
	workers int
	timeout time.Duration
	limiter *rate.Limiter
	onDone  func(ref string, err error)
	jobs    chan string
	group   singleflight.Group

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPrefetcher(loader Loader, opts PrefetchOptions) *Prefetcher {
	limit := rate.Inf
	if opts.PerSecond > 0 {
		limit = rate.Limit(opts.PerSecond)
	}

	return &Prefetcher{
		loader:  loader,
		workers: max(opts.Workers, 1),
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(limit, max(opts.Workers, 1)),
		onDone:  opts.OnDone,
		jobs:    make(chan string, max(opts.Queue, 1)),
	}
}

func (p *Prefetcher) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return fmt.Errorf("prefetcher already started")
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	return nil
}

// Stop cancels in-flight loads and waits for the workers to exit.
func (p *Prefetcher) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Submit queues ref for loading and reports whether it was accepted.
func (p *Prefetcher) Submit(ref string) bool {
	select {
	case p.jobs <- ref:
		return true
	default:
		log.Debugf("prefetch queue full, dropping %s", ref)
		return false
	}
}

func (p *Prefetcher) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ref := <-p.jobs:
			p.load(ctx, ref)
		}
	}
}

func (p *Prefetcher) load(ctx context.Context, ref string) {
	if err := p.limiter.Wait(ctx); err != nil {
		return
	}

	loadCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	_, err, _ := p.group.Do(ref, func() (any, error) {
		return nil, p.loader.Load(loadCtx, ref)
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Debugf("prefetch %s: %s", ref, err)
	}

	if p.onDone != nil {
		p.onDone(ref, err)
	}
}
