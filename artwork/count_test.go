package artwork

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/framecast/framecast/filesystem"
	"github.com/framecast/framecast/frame"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFrames(dir string, indices ...int) {
	for _, i := range indices {
		So(filesystem.API().WriteFile(filepath.Join(dir, frame.Ref(i)), []byte("jpg"), 0o644), ShouldBeNil)
	}
}

func TestCountFrames(t *testing.T) {
	Convey("Given an in-memory frames directory", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		dir := "/frames"
		So(filesystem.API().MkdirAll(dir, 0o755), ShouldBeNil)

		Convey("A contiguous sequence is counted", func() {
			writeFrames(dir, 1, 2, 3)
			n, err := CountFrames(dir)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
		})

		Convey("Counting stops at the first gap", func() {
			writeFrames(dir, 1, 2, 4, 5)
			So(filesystem.API().WriteFile(filepath.Join(dir, "cover.png"), nil, 0o644), ShouldBeNil)
			n, err := CountFrames(dir)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})

		Convey("A directory without frame 1 is an error", func() {
			writeFrames(dir, 2, 3)
			_, err := CountFrames(dir)
			So(errors.Is(err, ErrNoFrames), ShouldBeTrue)
		})

		Convey("The cached count survives new files until it expires", func() {
			writeFrames(dir, 1, 2)
			n, err := CachedCountFrames(dir, time.Hour)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)

			writeFrames(dir, 3)
			n, err = CachedCountFrames(dir, time.Hour)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})
	})
}
