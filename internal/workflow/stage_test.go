package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current Stage
		input   ResumeInput
		want    Stage
		wantErr error
	}{
		{
			name:    "approval passes through to the meeting gate",
			current: StageAwaitingDecision,
			input:   DecisionInput{Approved: true},
			want:    StageAwaitingMeeting,
		},
		{
			name:    "rejection terminates",
			current: StageAwaitingDecision,
			input:   DecisionInput{Approved: false},
			want:    StageRejected,
		},
		{
			name:    "meeting input schedules",
			current: StageAwaitingMeeting,
			input:   MeetingInput{Timestamp: time.Now(), NotificationAddress: "a@b.com"},
			want:    StageScheduled,
		},
		{
			name:    "decision at meeting gate is refused",
			current: StageAwaitingMeeting,
			input:   DecisionInput{Approved: true},
			wantErr: ErrWrongStage,
		},
		{
			name:    "meeting input at decision gate is refused",
			current: StageAwaitingDecision,
			input:   MeetingInput{Timestamp: time.Now()},
			wantErr: ErrWrongStage,
		},
		{
			name:    "decision on a rejected session is refused",
			current: StageRejected,
			input:   DecisionInput{Approved: true},
			wantErr: ErrWrongStage,
		},
		{
			name:    "meeting input on a scheduled session is refused",
			current: StageScheduled,
			input:   MeetingInput{Timestamp: time.Now()},
			wantErr: ErrWrongStage,
		},
		{
			name:    "decision before analysis is refused",
			current: StageIngested,
			input:   DecisionInput{Approved: true},
			wantErr: ErrWrongStage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.current, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStageOrdering(t *testing.T) {
	assert.True(t, StageIngested.After(StageCreated))
	assert.True(t, StageScheduled.After(StageAwaitingMeeting))
	assert.True(t, StageAwaitingMeeting.After(StageAwaitingDecision))
	assert.False(t, StageCreated.After(StageCreated))
	assert.False(t, StageAnalyzed.After(StageAwaitingDecision))

	// Rejection and approval branch from the same gate and share a rank.
	assert.False(t, StageRejected.After(StageApproved))
	assert.False(t, StageApproved.After(StageRejected))
}

func TestAcceptsActions(t *testing.T) {
	assert.False(t, StageCreated.AcceptsActions())
	assert.True(t, StageIngested.AcceptsActions())
	assert.True(t, StageAnalyzed.AcceptsActions())
	assert.True(t, StageAwaitingDecision.AcceptsActions())
	assert.True(t, StageAwaitingMeeting.AcceptsActions())
	assert.False(t, StageRejected.AcceptsActions())
	assert.False(t, StageScheduled.AcceptsActions())
}

func TestFinalStatusFor(t *testing.T) {
	status, ok := FinalStatusFor(StageRejected)
	assert.True(t, ok)
	assert.Equal(t, FinalStatusFailed, status)

	status, ok = FinalStatusFor(StageScheduled)
	assert.True(t, ok)
	assert.Equal(t, FinalStatusSuccess, status)

	_, ok = FinalStatusFor(StageAwaitingDecision)
	assert.False(t, ok)
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Stage{StageCreated, StageIngested, StageAnalyzed, StageAwaitingDecision, StageApproved, StageAwaitingMeeting} {
		assert.False(t, s.IsTerminal(), string(s))
	}
	assert.True(t, StageRejected.IsTerminal())
	assert.True(t, StageScheduled.IsTerminal())
}
