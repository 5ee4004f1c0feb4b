package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}

		Convey("Without a notification the view is unchanged", func() {
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("Notify raises a message the model shows", func() {
			msg := Notify("Playback Error: boom")()
			So(m.Update(msg), ShouldNotBeNil)
			So(m.Notification(), ShouldEqual, "Playback Error: boom")
			So(m.View("a\nb"), ShouldContainSubstring, "b  ")
			So(m.View("a\nb"), ShouldContainSubstring, "Playback Error: boom")
		})

		Convey("A clear from an older notification is ignored", func() {
			m.Update(NotificationMsg("first"))
			stale := m.generation
			m.Update(NotificationMsg("second"))

			m.Update(ClearNotificationMsg{generation: stale})
			So(m.Notification(), ShouldEqual, "second")

			m.Update(ClearNotificationMsg{generation: m.generation})
			So(m.Notification(), ShouldBeEmpty)
		})
	})
}
