package playback

import (
	"math"

	"github.com/samber/lo"

	"github.com/llehouerou/mediacore/internal/player"
)

// clampTime constrains seconds into [r.Start, r.End-offset]. When the
// range is shorter than offset the upper bound collapses onto r.Start.
func clampTime(seconds float64, r player.Range, offset float64) float64 {
	nearToEnd := max(r.End-offset, r.Start)
	return lo.Clamp(seconds, r.Start, nearToEnd)
}

// seekTolerance is how far the device may land from a seek target before
// the seek sentinel intervenes.
func seekTolerance(mt player.MediaType) float64 {
	if mt.IsLive() {
		return seekToleranceLive
	}
	return seekToleranceOnDemand
}

func timeHasAdvanced(newTime, lastTime float64) bool {
	return math.Abs(newTime-lastTime) > timeAdvanceTolerance
}

func isNearEnd(duration, t float64) bool {
	return duration-t <= nearEndWindow
}

func withinTolerance(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
