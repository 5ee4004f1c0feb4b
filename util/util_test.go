package util

import (
	"testing"

	"github.com/framecast/framecast/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("frames store"), ShouldEqual, "Frames store")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		fs := filesystem.API()

		Convey("A directory is removed with its contents", func() {
			So(fs.MkdirAll("/cache/frames", 0o755), ShouldBeNil)
			So(fs.WriteFile("/cache/frames/output_0001.jpg", []byte("jpg"), 0o644), ShouldBeNil)

			So(Delete("/cache/frames"), ShouldBeNil)
			exists, _ := fs.Exists("/cache/frames")
			So(exists, ShouldBeFalse)
		})

		Convey("A single file is removed", func() {
			So(fs.WriteFile("/counts.json", []byte("{}"), 0o644), ShouldBeNil)
			So(Delete("/counts.json"), ShouldBeNil)
			exists, _ := fs.Exists("/counts.json")
			So(exists, ShouldBeFalse)
		})

		Convey("A missing path is an error", func() {
			So(Delete("/missing"), ShouldNotBeNil)
		})
	})
}
