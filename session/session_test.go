package session

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPositionState(t *testing.T) {
	Convey("PositionState.Validate", t, func() {
		Convey("Accepts positions within the duration", func() {
			So(PositionState{Duration: 219, PlaybackRate: 1, Position: 0}.Validate(), ShouldBeNil)
			So(PositionState{Duration: 219, PlaybackRate: 1, Position: 219}.Validate(), ShouldBeNil)
		})

		Convey("Rejects unusable durations", func() {
			for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
				err := PositionState{Duration: d, PlaybackRate: 1}.Validate()
				So(errors.Is(err, ErrInvalidPosition), ShouldBeTrue)
			}
		})

		Convey("Rejects positions outside the duration", func() {
			So(errors.Is(PositionState{Duration: 10, PlaybackRate: 1, Position: 11}.Validate(), ErrInvalidPosition), ShouldBeTrue)
			So(errors.Is(PositionState{Duration: 10, PlaybackRate: 1, Position: -0.5}.Validate(), ErrInvalidPosition), ShouldBeTrue)
		})

		Convey("Rejects a non-finite or zero rate", func() {
			So(PositionState{Duration: 10, PlaybackRate: math.NaN()}.Validate(), ShouldNotBeNil)
			So(PositionState{Duration: 10, PlaybackRate: 0}.Validate(), ShouldNotBeNil)
		})
	})
}

func TestIntent(t *testing.T) {
	Convey("Intent.OffsetOrDefault", t, func() {
		So(Intent{Action: ActionSeekForward}.OffsetOrDefault(), ShouldEqual, DefaultSeekOffset)
		So(Intent{Action: ActionSeekForward, Offset: 5}.OffsetOrDefault(), ShouldEqual, 5)
		So(Intent{Action: ActionSeekForward, Offset: -3}.OffsetOrDefault(), ShouldEqual, DefaultSeekOffset)
	})
}

func TestMetadata(t *testing.T) {
	Convey("Metadata", t, func() {
		m := Metadata{Title: "Bad Apple!!"}
		So(m.ArtURL(), ShouldBeEmpty)

		withArt := m.WithArtwork(Artwork{Src: "file:///f/output_0001.jpg", Sizes: "480x360", Type: "image/jpeg"})
		So(withArt.ArtURL(), ShouldEqual, "file:///f/output_0001.jpg")
		So(withArt.Title, ShouldEqual, "Bad Apple!!")
		So(m.Artwork, ShouldBeEmpty)
	})
}

func TestDiscard(t *testing.T) {
	Convey("Discard", t, func() {
		d := NewDiscard()
		So(d.SetMetadata(Metadata{}), ShouldBeNil)
		So(d.SetPlaybackState(Playing), ShouldBeNil)
		So(d.ClearPositionState(), ShouldBeNil)
		So(d.SetPositionState(PositionState{Duration: 1, PlaybackRate: 1}), ShouldBeNil)
		So(errors.Is(d.SetPositionState(PositionState{}), ErrInvalidPosition), ShouldBeTrue)
		So(d.Close(), ShouldBeNil)

		select {
		case <-d.Intents():
			t.Fatal("discard delivered an intent")
		default:
		}
	})
}
