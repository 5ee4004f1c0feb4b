package artwork

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

type fakeLoader struct {
	mu      sync.Mutex
	loaded  []string
	release chan struct{}
	fail    map[string]error
}

func (f *fakeLoader) Load(ctx context.Context, ref string) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, ref)
	return f.fail[ref]
}

type outcome struct {
	ref string
	err error
}

func TestPrefetcher(t *testing.T) {
	Convey("Given a prefetcher", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		loader := &fakeLoader{fail: map[string]error{"output_0002.jpg": errors.New("boom")}}
		done := make(chan outcome, 8)
		p := NewPrefetcher(loader, PrefetchOptions{
			Workers: 2,
			Queue:   4,
			Timeout: time.Second,
			OnDone:  func(ref string, err error) { done <- outcome{ref, err} },
		})

		Convey("Submitted references are loaded and reported", func() {
			So(p.Start(context.Background()), ShouldBeNil)
			defer p.Stop()

			So(p.Submit("output_0001.jpg"), ShouldBeTrue)
			So(p.Submit("output_0002.jpg"), ShouldBeTrue)

			got := map[string]error{}
			for i := 0; i < 2; i++ {
				select {
				case o := <-done:
					got[o.ref] = o.err
				case <-time.After(2 * time.Second):
					t.Fatal("prefetch did not complete")
				}
			}

			So(got, ShouldContainKey, "output_0001.jpg")
			So(got["output_0001.jpg"], ShouldBeNil)
			So(got["output_0002.jpg"], ShouldNotBeNil)
		})

		Convey("Starting twice fails", func() {
			So(p.Start(context.Background()), ShouldBeNil)
			defer p.Stop()
			So(p.Start(context.Background()), ShouldNotBeNil)
		})

		Convey("Stop returns with no workers left", func() {
			So(p.Start(context.Background()), ShouldBeNil)
			p.Stop()
		})
	})

	Convey("Given a stalled loader", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		loader := &fakeLoader{release: make(chan struct{})}
		p := NewPrefetcher(loader, PrefetchOptions{Workers: 1, Queue: 1})

		Convey("Submissions beyond the queue are dropped without blocking", func() {
			So(p.Submit("output_0001.jpg"), ShouldBeTrue)
			So(p.Submit("output_0002.jpg"), ShouldBeFalse)
		})

		Convey("Stop cancels a blocked load", func() {
			So(p.Start(context.Background()), ShouldBeNil)
			So(p.Submit("output_0001.jpg"), ShouldBeTrue)
			time.Sleep(10 * time.Millisecond)

			stopped := make(chan struct{})
			go func() {
				p.Stop()
				close(stopped)
			}()

			select {
			case <-stopped:
			case <-time.After(2 * time.Second):
				t.Fatal("stop blocked on a stalled load")
			}
		})
	})
}

func TestCacheWithPrefetcher(t *testing.T) {
	Convey("A cache wired to a prefetcher marks loads complete", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		var cache *Cache
		done := make(chan struct{}, 1)
		p := NewPrefetcher(&fakeLoader{}, PrefetchOptions{
			Workers: 1,
			Queue:   4,
			OnDone: func(ref string, err error) {
				cache.MarkLoaded(ref, err)
				done <- struct{}{}
			},
		})
		cache = NewCache(3, p)

		So(p.Start(context.Background()), ShouldBeNil)
		defer p.Stop()

		cache.Request(1)
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("load was not reported")
		}
		So(cache.Loaded("output_0001.jpg"), ShouldBeTrue)
	})
}
