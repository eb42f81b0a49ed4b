package poll

import (
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
)

// Phase is the viewer's position in the voting state machine.
type Phase string

const (
	PhaseNotVoted Phase = "not_voted"
	PhaseVoting   Phase = "voting"
	PhaseVoted    Phase = "voted"
)

// State is what a poll card renders.
type State struct {
	aggregate.TallySnapshot
	Phase      Phase
	Loading    bool
	Submitting bool
	// Err is the last fetch or vote failure, cleared by the next success.
	Err error
}

func phaseOf(own int, submitting bool) Phase {
	switch {
	case submitting:
		return PhaseVoting
	case own != aggregate.NoVote:
		return PhaseVoted
	default:
		return PhaseNotVoted
	}
}
