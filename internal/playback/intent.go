package playback

import "github.com/samber/mo"

// Intent records what the caller asked for that the device has not yet
// confirmed. Its fields change only under the Player mutex, inside a
// single transition, and it is reset to newIntent whenever media is
// loaded or discarded.
type Intent struct {
	// PostBuffering is the state to resume once buffering ends
	// (StatePlaying or StatePaused).
	PostBuffering State
	// SeekTarget is a requested start point not yet issued to the device,
	// waiting for metadata.
	SeekTarget mo.Option[float64]
	// SentinelSeek is the clamped target last issued to the device, which
	// the seek sentinel verifies.
	SentinelSeek mo.Option[float64]
	// StartPoint is where playback was asked to begin; seek-finished
	// confirms playback near it.
	StartPoint mo.Option[float64]
	// TrustZeroes is set by a fresh seek or play-from-zero: a reported
	// position of zero is then believed until the device moves past it.
	TrustZeroes bool
	// IgnoreNextPause swallows the device pause event echoing a pause the
	// Player issued itself.
	IgnoreNextPause bool
}

func newIntent() Intent {
	return Intent{
		PostBuffering: StatePlaying,
		SeekTarget:    mo.None[float64](),
		SentinelSeek:  mo.None[float64](),
		StartPoint:    mo.None[float64](),
	}
}
