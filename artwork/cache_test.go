package artwork

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/framecast/framecast/frame"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingSubmitter struct {
	mu   sync.Mutex
	refs []string
}

func (r *recordingSubmitter) Submit(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs = append(r.refs, ref)
	return true
}

func TestCache(t *testing.T) {
	Convey("Cache", t, func() {
		sub := &recordingSubmitter{}

		Convey("Evicts the earliest insertion first", func() {
			c := NewCache(3, sub)
			for i := 1; i <= 4; i++ {
				c.Request(i)
			}
			So(c.Refs(), ShouldResemble, []string{frame.Ref(2), frame.Ref(3), frame.Ref(4)})
			So(c.Contains(frame.Ref(1)), ShouldBeFalse)
		})

		Convey("Is idempotent for present references", func() {
			c := NewCache(3, sub)
			c.Request(7)
			c.Request(7)
			c.Request(7)
			So(c.Len(), ShouldEqual, 1)
			So(sub.refs, ShouldResemble, []string{frame.Ref(7)})
		})

		Convey("Keeps request order rather than recency", func() {
			c := NewCache(2, sub)
			c.Request(1)
			c.Request(2)
			c.Request(1) // no-op, does not refresh 1
			c.Request(3)
			So(c.Refs(), ShouldResemble, []string{frame.Ref(2), frame.Ref(3)})
		})

		Convey("Ignores indices below one", func() {
			c := NewCache(2, sub)
			c.Request(0)
			c.Request(-4)
			So(c.Len(), ShouldEqual, 0)
			So(sub.refs, ShouldBeEmpty)
		})

		Convey("Clamps capacity to one", func() {
			c := NewCache(0, nil)
			c.Request(1)
			c.Request(2)
			So(c.Capacity(), ShouldEqual, 1)
			So(c.Refs(), ShouldResemble, []string{frame.Ref(2)})
		})

		Convey("Never exceeds capacity for arbitrary request sequences", func() {
			c := NewCache(5, sub)
			rng := rand.New(rand.NewSource(1))
			for n := 0; n < 500; n++ {
				c.Request(rng.Intn(40) + 1)
				So(c.Len(), ShouldBeLessThanOrEqualTo, 5)
			}
		})

		Convey("Tracks load outcomes for present entries only", func() {
			c := NewCache(1, sub)
			c.Request(1)
			So(c.Loaded(frame.Ref(1)), ShouldBeFalse)

			c.MarkLoaded(frame.Ref(1), nil)
			So(c.Loaded(frame.Ref(1)), ShouldBeTrue)

			c.MarkLoaded(frame.Ref(1), errors.New("404"))
			So(c.Loaded(frame.Ref(1)), ShouldBeFalse)

			c.Request(2)
			c.MarkLoaded(frame.Ref(1), nil)
			So(c.Contains(frame.Ref(1)), ShouldBeFalse)
			So(c.Loaded(frame.Ref(1)), ShouldBeFalse)
		})
	})
}
