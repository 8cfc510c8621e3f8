package world

// Body is the position of a car on the road. X always equals the lane's
// lateral position.
type Body struct {
	Lane int
	X    float64
	Z    float64
}

// Motion is a constant speed along z, in units per second.
type Motion struct {
	Speed float64
}

// TrafficCar tags an oncoming car. Warned is set once its approach cue has
// been published.
type TrafficCar struct {
	Warned bool
}

// PoliceCar tags a pursuit car belonging to a chase.
type PoliceCar struct {
	ChaseID string
}
