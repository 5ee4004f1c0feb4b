package config

import (
	"testing"

	"github.com/framecast/framecast/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSections(t *testing.T) {
	Convey("Sections", t, func() {
		Convey("Every key falls into a listed section", func() {
			sections := Sections()
			for k := range Default {
				So(sections, ShouldContain, Section(k))
			}
		})

		Convey("Tuning sections are kept apart", func() {
			throttle := lo.Map(InSection("throttle"), func(f Field, _ int) string { return f.Key })
			So(throttle, ShouldContain, key.ThrottleCacheSize)
			So(throttle, ShouldNotContain, key.PrefetchWorkers)

			prefetch := lo.Map(InSection("prefetch"), func(f Field, _ int) string { return f.Key })
			So(prefetch, ShouldResemble, []string{
				key.PrefetchPerSecond,
				key.PrefetchQueue,
				key.PrefetchTimeoutMs,
				key.PrefetchWorkers,
			})

			So(len(InSection("unlock")), ShouldEqual, 3)
		})

		Convey("Unknown sections are empty", func() {
			So(InSection("nope"), ShouldBeEmpty)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("Values take the type of their default", func() {
			v, err := Parse(key.ThrottleCacheSize, []string{"200"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 200)

			v, err = Parse(key.UnlockStartMuted, []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			v, err = Parse(key.MetadataTitle, []string{"Bad Apple!!"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "Bad Apple!!")
		})

		Convey("Strides and capacities below one are rejected", func() {
			for _, k := range []string{
				key.ThrottlePrefetchStride,
				key.ThrottleStrictPrefetchStride,
				key.ThrottleStrictCacheSize,
				key.PrefetchWorkers,
				key.PlayerTickHz,
			} {
				_, err := Parse(k, []string{"0"})
				So(err, ShouldNotBeNil)
			}

			_, err := Parse(key.ThrottlePrefetchStride, []string{"1"})
			So(err, ShouldBeNil)
		})

		Convey("Negative intervals are rejected but zero is allowed", func() {
			_, err := Parse(key.ThrottlePositionMs, []string{"-1"})
			So(err, ShouldNotBeNil)

			_, err = Parse(key.UnlockUnmuteDelayMs, []string{"0"})
			So(err, ShouldBeNil)

			_, err = Parse(key.FramesTotal, []string{"0"})
			So(err, ShouldBeNil)
		})

		Convey("Malformed input is rejected", func() {
			_, err := Parse(key.ThrottleCacheSize, []string{"many"})
			So(err, ShouldNotBeNil)

			_, err = Parse(key.SessionMPRIS, []string{"sometimes"})
			So(err, ShouldNotBeNil)

			_, err = Parse(key.ThrottleCacheSize, nil)
			So(err, ShouldNotBeNil)
		})

		Convey("Enumerated strings must name a known option", func() {
			_, err := Parse(key.LogsLevel, []string{"loud"})
			So(err, ShouldNotBeNil)

			_, err = Parse(key.LogsLevel, []string{"debug"})
			So(err, ShouldBeNil)

			_, err = Parse(key.IconsVariant, []string{"nerd"})
			So(err, ShouldBeNil)

			_, err = Parse(key.IconsVariant, []string{"fancy"})
			So(err, ShouldNotBeNil)
		})

		Convey("Artwork sizes need a width and a height", func() {
			_, err := Parse(key.FramesSizes, []string{"512x512"})
			So(err, ShouldBeNil)

			_, err = Parse(key.FramesSizes, []string{"512"})
			So(err, ShouldNotBeNil)

			_, err = Parse(key.FramesSizes, []string{"0x512"})
			So(err, ShouldNotBeNil)
		})

		Convey("Unknown keys are rejected", func() {
			_, err := Parse("throttle.speed", []string{"1"})
			So(err, ShouldNotBeNil)
		})
	})
}
