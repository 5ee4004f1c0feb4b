package log

import (
	"testing"

	"github.com/framecast/framecast/filesystem"
	"github.com/framecast/framecast/key"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Setup", t, func() {
		Convey("Should stay silent when writing is disabled", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)
			So(enabled, ShouldBeFalse)
			So(Component("syncloop").Logger.Out, ShouldNotBeNil)
		})

		Convey("Should fall back to info on an unknown level", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "chatty")
			So(Setup(), ShouldBeNil)
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
			So(Component("engine").Data["component"], ShouldEqual, "engine")
			viper.Set(key.LogsWrite, false)
			_ = Setup()
		})
	})
}
