package playback

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/llehouerou/mediacore/internal/player"
)

func TestClampTime(t *testing.T) {
	Convey("clampTime", t, func() {
		r := player.Range{Start: 0, End: 100}

		Convey("Should leave in-range values untouched", func() {
			So(clampTime(50, r, DefaultClampOffset), ShouldEqual, 50)
		})
		Convey("Should pull values past the end back by the offset", func() {
			So(clampTime(110, r, DefaultClampOffset), ShouldAlmostEqual, 98.9, 1e-9)
		})
		Convey("Should treat the end itself as past the end", func() {
			So(clampTime(100, r, DefaultClampOffset), ShouldAlmostEqual, 98.9, 1e-9)
		})
		Convey("Should raise values before the start", func() {
			So(clampTime(-5, player.Range{Start: 10, End: 100}, DefaultClampOffset), ShouldEqual, 10)
		})
		Convey("Should collapse onto the start for tiny ranges", func() {
			So(clampTime(5, player.Range{Start: 3, End: 3.5}, DefaultClampOffset), ShouldEqual, 3)
		})
	})
}

func TestSeekTolerance(t *testing.T) {
	Convey("seekTolerance", t, func() {
		So(seekTolerance(player.MediaVideo), ShouldEqual, 15)
		So(seekTolerance(player.MediaAudio), ShouldEqual, 15)
		So(seekTolerance(player.MediaLiveVideo), ShouldEqual, 30)
		So(seekTolerance(player.MediaLiveAudio), ShouldEqual, 30)
	})
}

func TestTimeHelpers(t *testing.T) {
	Convey("timeHasAdvanced", t, func() {
		So(timeHasAdvanced(10.2, 10), ShouldBeFalse)
		So(timeHasAdvanced(10.3, 10), ShouldBeTrue)
		Convey("Should count backward jumps", func() {
			So(timeHasAdvanced(5, 10), ShouldBeTrue)
		})
	})

	Convey("isNearEnd", t, func() {
		So(isNearEnd(100, 99), ShouldBeTrue)
		So(isNearEnd(100, 98.5), ShouldBeFalse)
		So(isNearEnd(math.Inf(1), 1e9), ShouldBeFalse)
	})

	Convey("withinTolerance", t, func() {
		So(withinTolerance(70.1, 100, 30), ShouldBeTrue)
		So(withinTolerance(69.9, 100, 30), ShouldBeFalse)
	})
}
