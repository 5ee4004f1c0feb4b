package artwork

import (
	"strings"
	"testing"
	"time"

	"github.com/framecast/framecast/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		filesystem.SetMemMapFs()
		s := NewStore("/frames", time.Hour)

		Convey("Paths stay inside the store root", func() {
			So(s.Path("output_0001.jpg"), ShouldEqual, "/frames/output_0001.jpg")
			So(s.Path("../../etc/passwd"), ShouldEqual, "/frames/passwd")
		})

		Convey("Written artwork is fresh", func() {
			So(s.Has("output_0001.jpg"), ShouldBeFalse)
			So(s.Write("output_0001.jpg", strings.NewReader("jpeg")), ShouldBeNil)
			So(s.Has("output_0001.jpg"), ShouldBeTrue)

			data, err := filesystem.API().ReadFile(s.Path("output_0001.jpg"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "jpeg")

			exists, _ := filesystem.API().Exists(s.Path("output_0001.jpg") + ".tmp")
			So(exists, ShouldBeFalse)
		})

		Convey("Artwork past the TTL is stale and collected", func() {
			So(s.Write("output_0001.jpg", strings.NewReader("a")), ShouldBeNil)
			So(s.Write("output_0002.jpg", strings.NewReader("b")), ShouldBeNil)

			old := time.Now().Add(-2 * time.Hour)
			So(filesystem.API().Chtimes(s.Path("output_0001.jpg"), old, old), ShouldBeNil)

			So(s.Has("output_0001.jpg"), ShouldBeFalse)
			So(s.CollectGarbage(), ShouldEqual, 1)
			So(s.Has("output_0002.jpg"), ShouldBeTrue)
		})

		Convey("A zero TTL keeps everything", func() {
			forever := NewStore("/frames", 0)
			So(forever.Write("output_0001.jpg", strings.NewReader("a")), ShouldBeNil)
			old := time.Now().Add(-1000 * time.Hour)
			So(filesystem.API().Chtimes(forever.Path("output_0001.jpg"), old, old), ShouldBeNil)
			So(forever.Has("output_0001.jpg"), ShouldBeTrue)
			So(forever.CollectGarbage(), ShouldEqual, 0)
		})
	})
}
