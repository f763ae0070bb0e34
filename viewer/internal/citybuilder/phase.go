package citybuilder

import "fmt"

// WorkerPhase é o estado de um worker.
type WorkerPhase int32

const (
	PhaseIdle WorkerPhase = iota
	PhaseTexturesLoading
	PhaseTexturesReady
	PhaseGeneratingPermanent
	PhaseGeneratingTransient
	PhaseHolding
	PhaseDeletingTransient
	PhaseStopped
)

var phaseNames = [...]string{
	"idle",
	"textures-loading",
	"textures-ready",
	"generating-permanent",
	"generating-transient",
	"holding",
	"deleting-transient",
	"stopped",
}

func (p WorkerPhase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("WorkerPhase(%d)", int32(p))
	}
	return phaseNames[p]
}
