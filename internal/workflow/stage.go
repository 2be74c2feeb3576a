package workflow

// Stage is the session's position in the review state machine.
//
// CREATED -> INGESTED -> ANALYZED -> AWAITING_DECISION -> REJECTED (terminal)
//                                                      -> APPROVED -> AWAITING_MEETING -> SCHEDULED (terminal)
//
// The two AWAITING_* stages are human gates: the session sits in the store
// with no goroutine attached until a resume call supplies the missing input.
type Stage string

const (
	StageCreated          Stage = "CREATED"
	StageIngested         Stage = "INGESTED"
	StageAnalyzed         Stage = "ANALYZED"
	StageAwaitingDecision Stage = "AWAITING_DECISION"
	StageRejected         Stage = "REJECTED"
	StageApproved         Stage = "APPROVED"
	StageAwaitingMeeting  Stage = "AWAITING_MEETING"
	StageScheduled        Stage = "SCHEDULED"
)

// FinalStatus tags a terminal session outcome.
type FinalStatus string

const (
	FinalStatusSuccess FinalStatus = "SUCCESS"
	FinalStatusFailed  FinalStatus = "FAILED"
)

// stageOrder gives every stage a rank so forward-only progression can be
// asserted without enumerating transitions. APPROVED shares a rank slot even
// though the engine passes through it without persisting it.
var stageOrder = map[Stage]int{
	StageCreated:          0,
	StageIngested:         1,
	StageAnalyzed:         2,
	StageAwaitingDecision: 3,
	StageRejected:         4,
	StageApproved:         4,
	StageAwaitingMeeting:  5,
	StageScheduled:        6,
}

func (s Stage) IsTerminal() bool {
	return s == StageRejected || s == StageScheduled
}

// After reports whether s comes strictly later than other in the machine.
func (s Stage) After(other Stage) bool {
	return stageOrder[s] > stageOrder[other]
}

// AcceptsActions reports whether side actions (verify, summarize, suggest,
// ask) may run at this stage. They are available from INGESTED onward and
// never at a terminal stage.
func (s Stage) AcceptsActions() bool {
	return !s.IsTerminal() && stageOrder[s] >= stageOrder[StageIngested]
}

// FinalStatusFor maps a terminal stage to its outcome tag. Rejection is
// tagged FAILED; scheduling completes the workflow with SUCCESS. Non-terminal
// stages carry no final status.
func FinalStatusFor(s Stage) (FinalStatus, bool) {
	switch s {
	case StageRejected:
		return FinalStatusFailed, true
	case StageScheduled:
		return FinalStatusSuccess, true
	default:
		return "", false
	}
}

// Next is the pure transition function for human-gate inputs: given the
// current stage and a resume input it returns the stage that would follow.
// It performs no I/O and no mutation, so the whole graph is testable in
// isolation. Inputs that do not fit the current stage return ErrWrongStage;
// the engine refines that into InvalidStateError or AlreadyDecidedError by
// looking at the session's fields.
func Next(current Stage, input ResumeInput) (Stage, error) {
	switch in := input.(type) {
	case DecisionInput:
		if current != StageAwaitingDecision {
			return "", ErrWrongStage
		}
		if in.Approved {
			// APPROVED is a pass-through stage; the session comes to rest
			// at the meeting gate.
			return StageAwaitingMeeting, nil
		}
		return StageRejected, nil
	case MeetingInput:
		if current != StageAwaitingMeeting {
			return "", ErrWrongStage
		}
		return StageScheduled, nil
	default:
		return "", ErrUnknownInput
	}
}
