package kinematics

// Constants are the fixed physical parameters of the mechanism. Only the
// lengths feed the geometry; the rest describe the model that produced the
// coordinate series.
type Constants struct {
	L0 float64 `yaml:"l0"`
	L1 float64 `yaml:"l1"`
	L2 float64 `yaml:"l2"`
	M1 float64 `yaml:"m1"`
	M2 float64 `yaml:"m2"`
	K1 float64 `yaml:"k1"`
	K2 float64 `yaml:"k2"`
	G  float64 `yaml:"g"`
}

func DefaultConstants() Constants {
	return Constants{
		L0: 3, L1: 7, L2: 3,
		M1: 1, M2: 0.5,
		K1: 50, K2: 50,
		G: 9.82,
	}
}

// Params returns the constants keyed by name, for run metadata.
func (c Constants) Params() map[string]float64 {
	return map[string]float64{
		"l0": c.L0, "l1": c.L1, "l2": c.L2,
		"m1": c.M1, "m2": c.M2,
		"k1": c.K1, "k2": c.K2,
		"g": c.G,
	}
}

// Display offsets along the depth (x) axis and chain paddings.
const (
	floorClearance = 1.3
	backdropX      = -18.0
	pivotPinX      = 0.39489
	pivotHubX      = 1.01279
	upperArmX      = 1.0
	elbowPinX      = 1.5
	ChainDepth     = 1.7
	linkOneInset   = 0.1
	bobPadding     = 0.3
)
