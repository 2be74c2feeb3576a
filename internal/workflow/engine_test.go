package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rispar0529/De-Sign/internal/repository/memory"
	"github.com/rispar0529/De-Sign/internal/workflow"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// stubAnalysis answers every gateway call from canned data and counts hits.
type stubAnalysis struct {
	mu          sync.Mutex
	findings    []workflow.ClauseFinding
	assessErr   error
	extractErr  error
	assessCalls int
}

func (s *stubAnalysis) Extract(_ context.Context, filename, contentType string, _ []byte) (workflow.DocumentRef, error) {
	if s.extractErr != nil {
		return workflow.DocumentRef{}, s.extractErr
	}
	return workflow.DocumentRef{Path: "/tmp/" + filename, Filename: filename, ContentType: contentType}, nil
}

func (s *stubAnalysis) AssessRisk(context.Context, workflow.DocumentRef) ([]workflow.ClauseFinding, error) {
	s.mu.Lock()
	s.assessCalls++
	s.mu.Unlock()
	if s.assessErr != nil {
		return nil, s.assessErr
	}
	return s.findings, nil
}

func (s *stubAnalysis) Summarize(context.Context, workflow.DocumentRef) (string, error) {
	return "a plain-English summary", nil
}

func (s *stubAnalysis) SuggestClause(_ context.Context, _ workflow.DocumentRef, clauseName, riskyText string) (string, error) {
	if riskyText != "" {
		return "rewritten " + clauseName, nil
	}
	return "drafted " + clauseName, nil
}

func (s *stubAnalysis) Answer(_ context.Context, _ workflow.DocumentRef, question string) (string, error) {
	return "answer to: " + question, nil
}

// stubNotifier records confirmation sends and can be told to fail.
type stubNotifier struct {
	mu    sync.Mutex
	sends []string
	err   error
}

func (n *stubNotifier) SendMeetingConfirmation(_ context.Context, address string, _ *workflow.Session, _ *workflow.MeetingDetails) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sends = append(n.sends, address)
	return nil
}

func (n *stubNotifier) sendCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sends)
}

func testFindings() []workflow.ClauseFinding {
	return []workflow.ClauseFinding{
		{ClauseName: "Indemnification", IsPresent: true, RiskLevel: workflow.RiskLow, ConfidenceScore: 0.9},
		{ClauseName: "Force Majeure", IsPresent: false, RiskLevel: workflow.RiskHigh, ConfidenceScore: 0.8},
	}
}

func newTestEngine() (*workflow.Engine, *memory.SessionRepository, *stubAnalysis, *stubNotifier) {
	repo := memory.NewSessionRepository()
	analysis := &stubAnalysis{findings: testFindings()}
	notifier := &stubNotifier{}
	engine := workflow.NewEngine(repo, analysis, notifier, nil, nopLogger{})
	return engine, repo, analysis, notifier
}

func startSession(t *testing.T, engine *workflow.Engine) *workflow.Session {
	t.Helper()
	sess, err := engine.Start(context.Background(), "user-1", "contract.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	return sess
}

func TestStartRunsToDecisionGate(t *testing.T) {
	engine, repo, _, _ := newTestEngine()

	sess := startSession(t, engine)

	assert.Equal(t, workflow.StageAwaitingDecision, sess.Stage)
	assert.True(t, sess.Document.Resolved())
	assert.Len(t, sess.RiskAssessment, 2)
	assert.Nil(t, sess.Decision)

	// Create plus three committed transitions.
	stored, err := repo.Get(context.Background(), sess.Id.String())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.Version)
	assert.Equal(t, workflow.StageAwaitingDecision, stored.Stage)
}

func TestStartAnalysisFailureLeavesSessionIngested(t *testing.T) {
	engine, repo, analysis, _ := newTestEngine()
	analysis.assessErr = &workflow.AnalysisUnavailableError{Op: "assess_risk", Err: errors.New("model overloaded")}

	_, err := engine.Start(context.Background(), "user-1", "contract.pdf", "application/pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, workflow.IsRetryable(err))

	// The ingestion commit survives the analysis failure.
	sessions, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, workflow.StageIngested, sessions[0].Stage)
	assert.Empty(t, sessions[0].RiskAssessment)
}

func TestApproveThenSchedule(t *testing.T) {
	engine, _, _, notifier := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)

	sess, err := engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: true})
	require.NoError(t, err)
	assert.Equal(t, workflow.StageAwaitingMeeting, sess.Stage)
	require.NotNil(t, sess.Decision)
	assert.True(t, *sess.Decision)
	assert.Empty(t, sess.FinalStatus)

	when := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	sess, err = engine.Resume(ctx, sess.Id.String(), workflow.MeetingInput{
		Timestamp:           when,
		NotificationAddress: "legal@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, workflow.StageScheduled, sess.Stage)
	assert.Equal(t, workflow.FinalStatusSuccess, sess.FinalStatus)
	require.NotNil(t, sess.Meeting)
	assert.Equal(t, when, sess.Meeting.Timestamp)
	assert.True(t, strings.HasPrefix(sess.Meeting.MeetingID, "MTG_"))
	assert.True(t, strings.HasPrefix(sess.Meeting.ConfirmationCode, "CONF_"))
	assert.Contains(t, sess.Meeting.CalendarLink, sess.Meeting.MeetingID)
	require.NotNil(t, sess.Signing)
	assert.True(t, strings.HasPrefix(sess.Signing.SignatureID, "SIG_"))
	assert.Equal(t, 1, notifier.sendCount())
}

func TestRejectTerminates(t *testing.T) {
	engine, _, _, notifier := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)

	sess, err := engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: false})
	require.NoError(t, err)
	assert.Equal(t, workflow.StageRejected, sess.Stage)
	assert.Equal(t, workflow.FinalStatusFailed, sess.FinalStatus)
	assert.Equal(t, 0, notifier.sendCount())

	// The terminal session refuses any further input.
	_, err = engine.Resume(ctx, sess.Id.String(), workflow.MeetingInput{
		Timestamp:           time.Now(),
		NotificationAddress: "legal@example.com",
	})
	var invalid *workflow.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestDecisionIsWriteOnce(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)

	_, err := engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: true})
	require.NoError(t, err)

	_, err = engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: false})
	var decided *workflow.AlreadyDecidedError
	assert.ErrorAs(t, err, &decided)
}

func TestMeetingBeforeDecisionRefused(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	sess := startSession(t, engine)

	_, err := engine.Resume(context.Background(), sess.Id.String(), workflow.MeetingInput{
		Timestamp:           time.Now(),
		NotificationAddress: "legal@example.com",
	})
	var invalid *workflow.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestMeetingInputValidation(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)
	_, err := engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: true})
	require.NoError(t, err)

	_, err = engine.Resume(ctx, sess.Id.String(), workflow.MeetingInput{NotificationAddress: "legal@example.com"})
	var validation *workflow.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = engine.Resume(ctx, sess.Id.String(), workflow.MeetingInput{Timestamp: time.Now()})
	assert.ErrorAs(t, err, &validation)
}

func TestDeliveryFailureKeepsMeetingGateOpen(t *testing.T) {
	engine, repo, _, notifier := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)
	_, err := engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: true})
	require.NoError(t, err)

	notifier.err = errors.New("smtp connection refused")
	input := workflow.MeetingInput{
		Timestamp:           time.Now().Add(48 * time.Hour),
		NotificationAddress: "legal@example.com",
	}
	_, err = engine.Resume(ctx, sess.Id.String(), input)
	var delivery *workflow.DeliveryError
	require.ErrorAs(t, err, &delivery)
	assert.True(t, workflow.IsRetryable(err))

	// Nothing committed: the session still waits at the meeting gate.
	stored, err := repo.Get(ctx, sess.Id.String())
	require.NoError(t, err)
	assert.Equal(t, workflow.StageAwaitingMeeting, stored.Stage)
	assert.Nil(t, stored.Meeting)

	// The same input replayed after the outage succeeds.
	notifier.err = nil
	resumed, err := engine.Resume(ctx, sess.Id.String(), input)
	require.NoError(t, err)
	assert.Equal(t, workflow.StageScheduled, resumed.Stage)
	assert.Equal(t, 1, notifier.sendCount())
}

func TestConcurrentDecisionsOnlyOneWins(t *testing.T) {
	engine, repo, _, _ := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int, approved bool) {
			defer wg.Done()
			_, errs[i] = engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: approved})
		}(i, i == 0)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		var conflict *workflow.ConflictError
		var decided *workflow.AlreadyDecidedError
		var invalid *workflow.InvalidStateError
		ok := errors.As(err, &conflict) || errors.As(err, &decided) || errors.As(err, &invalid)
		assert.True(t, ok, "unexpected error: %v", err)
	}
	assert.Equal(t, 1, winners)

	stored, err := repo.Get(ctx, sess.Id.String())
	require.NoError(t, err)
	assert.NotNil(t, stored.Decision)
}

func TestSideActionsStoreResults(t *testing.T) {
	engine, _, analysis, _ := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)
	id := sess.Id.String()

	sess, err := engine.RunAction(ctx, id, workflow.ActionSummarize, workflow.ActionParams{})
	require.NoError(t, err)
	assert.Equal(t, "a plain-English summary", sess.Summary)
	assert.Equal(t, workflow.StageAwaitingDecision, sess.Stage)

	sess, err = engine.RunAction(ctx, id, workflow.ActionVerify, workflow.ActionParams{})
	require.NoError(t, err)
	assert.Len(t, sess.VerificationResult, 2)
	assert.Equal(t, 2, analysis.assessCalls) // one from Start, one from verify

	sess, err = engine.RunAction(ctx, id, workflow.ActionSuggestClause, workflow.ActionParams{ClauseName: "Force Majeure"})
	require.NoError(t, err)
	assert.Equal(t, "drafted Force Majeure", sess.ClauseSuggestion)

	sess, err = engine.RunAction(ctx, id, workflow.ActionSuggestClause, workflow.ActionParams{ClauseName: "Indemnification", RiskyText: "one-sided text"})
	require.NoError(t, err)
	assert.Equal(t, "rewritten Indemnification", sess.ClauseSuggestion)

	sess, err = engine.RunAction(ctx, id, workflow.ActionAsk, workflow.ActionParams{Question: "Who owns the IP?"})
	require.NoError(t, err)
	assert.Equal(t, "answer to: Who owns the IP?", sess.Answer)
}

func TestSideActionsRemainAvailableAtMeetingGate(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)
	_, err := engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: true})
	require.NoError(t, err)

	sess, err = engine.RunAction(ctx, sess.Id.String(), workflow.ActionSummarize, workflow.ActionParams{})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Summary)
	assert.Equal(t, workflow.StageAwaitingMeeting, sess.Stage)
}

func TestSideActionParamValidation(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)

	var validation *workflow.ValidationError
	_, err := engine.RunAction(ctx, sess.Id.String(), workflow.ActionSuggestClause, workflow.ActionParams{})
	assert.ErrorAs(t, err, &validation)

	_, err = engine.RunAction(ctx, sess.Id.String(), workflow.ActionAsk, workflow.ActionParams{})
	assert.ErrorAs(t, err, &validation)

	_, err = engine.RunAction(ctx, sess.Id.String(), workflow.ActionKind("translate"), workflow.ActionParams{})
	assert.ErrorAs(t, err, &validation)
}

func TestSideActionBeforeIngestion(t *testing.T) {
	engine, repo, _, _ := newTestEngine()
	ctx := context.Background()

	// A session stuck at CREATED, as if extraction never completed.
	stuck := &workflow.Session{Id: uuid.New(), Stage: workflow.StageCreated, UserId: "user-1"}
	require.NoError(t, repo.Create(ctx, stuck))

	_, err := engine.RunAction(ctx, stuck.Id.String(), workflow.ActionSummarize, workflow.ActionParams{})
	var notIngested *workflow.NotIngestedError
	assert.ErrorAs(t, err, &notIngested)
}

func TestSideActionOnTerminalSession(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	ctx := context.Background()
	sess := startSession(t, engine)
	_, err := engine.Resume(ctx, sess.Id.String(), workflow.DecisionInput{Approved: false})
	require.NoError(t, err)

	_, err = engine.RunAction(ctx, sess.Id.String(), workflow.ActionSummarize, workflow.ActionParams{})
	var invalid *workflow.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestUnknownSession(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	ctx := context.Background()

	var notFound *workflow.SessionNotFoundError
	_, err := engine.Get(ctx, "a2b56a6a-7d48-4a1e-9a60-881ea2c78a4a")
	assert.ErrorAs(t, err, &notFound)

	_, err = engine.Resume(ctx, "a2b56a6a-7d48-4a1e-9a60-881ea2c78a4a", workflow.DecisionInput{Approved: true})
	assert.ErrorAs(t, err, &notFound)
}

func TestListByUserIsolation(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Start(ctx, "alice", "a.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	_, err = engine.Start(ctx, "alice", "b.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	_, err = engine.Start(ctx, "bob", "c.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	mine, err := engine.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := engine.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
