package core

// PhotonArray holds parallel position and flux-weight sequences for a batch
// of photons. The length is fixed at allocation; shooting fills the slots
// in place and convolution mutates them.
type PhotonArray struct {
	X, Y, Flux []float64
}

// NewPhotonArray allocates an array of n zero photons.
func NewPhotonArray(n int) *PhotonArray {
	return &PhotonArray{
		X:    make([]float64, n),
		Y:    make([]float64, n),
		Flux: make([]float64, n),
	}
}

// Len returns the number of photons.
func (pa *PhotonArray) Len() int { return len(pa.X) }

// SetPhoton stores position (x, y) and weight flux in slot i.
func (pa *PhotonArray) SetPhoton(i int, x, y, flux float64) {
	pa.X[i] = x
	pa.Y[i] = y
	pa.Flux[i] = flux
}

// TotalFlux returns the sum of the photon weights.
func (pa *PhotonArray) TotalFlux() float64 {
	sum := 0.0
	for _, f := range pa.Flux {
		sum += f
	}
	return sum
}

// Scale multiplies every photon weight by s.
func (pa *PhotonArray) Scale(s float64) {
	for i := range pa.Flux {
		pa.Flux[i] *= s
	}
}

// Offset translates every photon by (dx, dy).
func (pa *PhotonArray) Offset(dx, dy float64) {
	for i := range pa.X {
		pa.X[i] += dx
		pa.Y[i] += dy
	}
}

// Convolve folds another photon batch into this one: positions add, since
// convolution of densities is addition of independent random displacements,
// and each weight becomes flux[i] * N * other.flux[i]. For a kernel whose
// photons carry its total flux F spread evenly over N slots, the factor
// N*other.flux[i] is exactly F, so convolving with a unit-flux kernel
// leaves the weights unchanged in expectation.
func (pa *PhotonArray) Convolve(other *PhotonArray) {
	n := pa.Len()
	if other.Len() != n {
		panic("core: PhotonArray.Convolve requires equal lengths")
	}
	fn := float64(n)
	for i := 0; i < n; i++ {
		pa.X[i] += other.X[i]
		pa.Y[i] += other.Y[i]
		pa.Flux[i] *= fn * other.Flux[i]
	}
}

// CentroidX returns the flux-weighted mean x position. Zero total flux
// yields zero.
func (pa *PhotonArray) CentroidX() float64 {
	var sx, sf float64
	for i := range pa.X {
		sx += pa.X[i] * pa.Flux[i]
		sf += pa.Flux[i]
	}
	if sf == 0 {
		return 0
	}
	return sx / sf
}

// CentroidY returns the flux-weighted mean y position.
func (pa *PhotonArray) CentroidY() float64 {
	var sy, sf float64
	for i := range pa.Y {
		sy += pa.Y[i] * pa.Flux[i]
		sf += pa.Flux[i]
	}
	if sf == 0 {
		return 0
	}
	return sy / sf
}
