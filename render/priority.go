package render

// Phase orders the per-frame executor. Lower values run first
type Phase = int

const (
	PhaseClear   Phase = -300
	PhaseUpdate  Phase = -200
	PhaseDraw    Phase = 0
	PhaseOverlay Phase = 100
	PhaseFlip    Phase = 300
)

// Layer orders draw requests inside one Drawer. Lower values draw first (further back)
type Layer = int

const (
	LayerBackground Layer = iota * 10
	LayerGrid
	LayerEntities
	LayerParticle
	LayerUI
	LayerOverlay
	LayerDebug
)
