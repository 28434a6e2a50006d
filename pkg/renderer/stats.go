package renderer

// RenderStats reports what a render call actually did. Point Options.Stats
// at a zero value to collect them; a nil pointer skips collection.
type RenderStats struct {
	GridSize int // stamp dimension in pixels

	// Photon rendering only.
	PhotonsShot int     // photons drawn from the profile
	Chunks      int     // photon batches generated
	FluxShot    float64 // total weight carried by the photons
	FluxBinned  float64 // weight that landed inside the stamp
}

func (o Options) recordGrid(n int) {
	if o.Stats != nil {
		o.Stats.GridSize = n
	}
}

func (o Options) recordPhotons(n, chunks int, shot, binned float64) {
	if o.Stats != nil {
		o.Stats.PhotonsShot = n
		o.Stats.Chunks = chunks
		o.Stats.FluxShot = shot
		o.Stats.FluxBinned = binned
	}
}
