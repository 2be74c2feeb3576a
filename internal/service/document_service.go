// FILE: internal/service/document_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rispar0529/De-Sign/internal/dto"
	"github.com/rispar0529/De-Sign/internal/workflow"
	"github.com/rispar0529/De-Sign/pkg/extractor"
)

// maxUploadBytes caps contract uploads at 16 MiB.
const maxUploadBytes = 16 << 20

type IDocumentService interface {
	Upload(ctx context.Context, userId, filename, contentType string, data []byte) (*dto.UploadDocumentResponse, error)
	Get(ctx context.Context, userId, sessionId string) (*dto.SessionDetailResponse, error)
	List(ctx context.Context, userId string) ([]*dto.SessionSummaryResponse, error)
	Decide(ctx context.Context, userId, sessionId string, request *dto.DecisionRequest) (*dto.SessionDetailResponse, error)
	ScheduleMeeting(ctx context.Context, userId, sessionId string, request *dto.ScheduleMeetingRequest) (*dto.SessionDetailResponse, error)
	Verify(ctx context.Context, userId, sessionId string) (*dto.VerifyResponse, error)
	Summarize(ctx context.Context, userId, sessionId string) (*dto.ActionResultResponse, error)
	SuggestClause(ctx context.Context, userId, sessionId string, request *dto.SuggestClauseRequest) (*dto.ActionResultResponse, error)
	Ask(ctx context.Context, userId, sessionId string, request *dto.AskQuestionRequest) (*dto.ActionResultResponse, error)
}

type documentService struct {
	engine *workflow.Engine
}

func NewDocumentService(engine *workflow.Engine) IDocumentService {
	return &documentService{engine: engine}
}

func (s *documentService) Upload(ctx context.Context, userId, filename, contentType string, data []byte) (*dto.UploadDocumentResponse, error) {
	if len(data) == 0 {
		return nil, &workflow.ValidationError{Reason: "uploaded file is empty"}
	}
	if len(data) > maxUploadBytes {
		return nil, &workflow.ValidationError{Reason: fmt.Sprintf("file exceeds %d byte limit", maxUploadBytes)}
	}
	if !extractor.Supported(contentType) {
		return nil, &workflow.ValidationError{Reason: fmt.Sprintf("unsupported content type %q", contentType)}
	}

	sess, err := s.engine.Start(ctx, userId, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{
		SessionId: sess.Id,
		Filename:  sess.Document.Filename,
		Stage:     string(sess.Stage),
		Findings:  sess.RiskAssessment,
	}, nil
}

func (s *documentService) Get(ctx context.Context, userId, sessionId string) (*dto.SessionDetailResponse, error) {
	sess, err := s.owned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return toSessionDetail(sess), nil
}

func (s *documentService) List(ctx context.Context, userId string) ([]*dto.SessionSummaryResponse, error) {
	sessions, err := s.engine.ListByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SessionSummaryResponse, len(sessions))
	for i, sess := range sessions {
		out[i] = &dto.SessionSummaryResponse{
			SessionId:   sess.Id,
			Filename:    sess.Document.Filename,
			Stage:       string(sess.Stage),
			FinalStatus: string(sess.FinalStatus),
			CreatedAt:   sess.CreatedAt,
			UpdatedAt:   sess.UpdatedAt,
		}
	}
	return out, nil
}

func (s *documentService) Decide(ctx context.Context, userId, sessionId string, request *dto.DecisionRequest) (*dto.SessionDetailResponse, error) {
	if _, err := s.owned(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	sess, err := s.engine.Resume(ctx, sessionId, workflow.DecisionInput{Approved: *request.Approved})
	if err != nil {
		return nil, err
	}
	return toSessionDetail(sess), nil
}

func (s *documentService) ScheduleMeeting(ctx context.Context, userId, sessionId string, request *dto.ScheduleMeetingRequest) (*dto.SessionDetailResponse, error) {
	if _, err := s.owned(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	timestamp, err := time.Parse(time.RFC3339, strings.TrimSpace(request.Timestamp))
	if err != nil {
		return nil, &workflow.ValidationError{Reason: "timestamp must be RFC3339, e.g. 2026-09-01T10:00:00Z"}
	}

	sess, err := s.engine.Resume(ctx, sessionId, workflow.MeetingInput{
		Timestamp:           timestamp,
		NotificationAddress: request.NotificationAddress,
	})
	if err != nil {
		return nil, err
	}
	return toSessionDetail(sess), nil
}

func (s *documentService) Verify(ctx context.Context, userId, sessionId string) (*dto.VerifyResponse, error) {
	if _, err := s.owned(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	sess, err := s.engine.RunAction(ctx, sessionId, workflow.ActionVerify, workflow.ActionParams{})
	if err != nil {
		return nil, err
	}
	return &dto.VerifyResponse{
		SessionId: sess.Id,
		Stage:     string(sess.Stage),
		Findings:  sess.VerificationResult,
	}, nil
}

func (s *documentService) Summarize(ctx context.Context, userId, sessionId string) (*dto.ActionResultResponse, error) {
	if _, err := s.owned(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	sess, err := s.engine.RunAction(ctx, sessionId, workflow.ActionSummarize, workflow.ActionParams{})
	if err != nil {
		return nil, err
	}
	return &dto.ActionResultResponse{
		SessionId: sess.Id,
		Stage:     string(sess.Stage),
		Result:    sess.Summary,
	}, nil
}

func (s *documentService) SuggestClause(ctx context.Context, userId, sessionId string, request *dto.SuggestClauseRequest) (*dto.ActionResultResponse, error) {
	if _, err := s.owned(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	sess, err := s.engine.RunAction(ctx, sessionId, workflow.ActionSuggestClause, workflow.ActionParams{
		ClauseName: request.ClauseName,
		RiskyText:  request.RiskyText,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ActionResultResponse{
		SessionId: sess.Id,
		Stage:     string(sess.Stage),
		Result:    sess.ClauseSuggestion,
	}, nil
}

func (s *documentService) Ask(ctx context.Context, userId, sessionId string, request *dto.AskQuestionRequest) (*dto.ActionResultResponse, error) {
	if _, err := s.owned(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	sess, err := s.engine.RunAction(ctx, sessionId, workflow.ActionAsk, workflow.ActionParams{
		Question: request.Question,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ActionResultResponse{
		SessionId: sess.Id,
		Stage:     string(sess.Stage),
		Result:    sess.Answer,
	}, nil
}

// owned loads the session and enforces ownership. Sessions belonging to
// someone else are reported as not found so ids cannot be probed.
func (s *documentService) owned(ctx context.Context, userId, sessionId string) (*workflow.Session, error) {
	sess, err := s.engine.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if sess.UserId != userId {
		return nil, &workflow.SessionNotFoundError{Id: sessionId}
	}
	return sess, nil
}

func toSessionDetail(sess *workflow.Session) *dto.SessionDetailResponse {
	resp := &dto.SessionDetailResponse{
		SessionId:          sess.Id,
		Filename:           sess.Document.Filename,
		ContentType:        sess.Document.ContentType,
		Stage:              string(sess.Stage),
		FinalStatus:        string(sess.FinalStatus),
		RiskAssessment:     sess.RiskAssessment,
		VerificationResult: sess.VerificationResult,
		Summary:            sess.Summary,
		ClauseSuggestion:   sess.ClauseSuggestion,
		Answer:             sess.Answer,
		Decision:           sess.Decision,
		CreatedAt:          sess.CreatedAt,
		UpdatedAt:          sess.UpdatedAt,
	}
	if sess.Meeting != nil {
		resp.Meeting = &dto.MeetingResponse{
			Timestamp:        sess.Meeting.Timestamp,
			MeetingId:        sess.Meeting.MeetingID,
			ConfirmationCode: sess.Meeting.ConfirmationCode,
			CalendarLink:     sess.Meeting.CalendarLink,
		}
	}
	if sess.Signing != nil {
		resp.Signing = &dto.SigningResponse{
			SignatureId: sess.Signing.SignatureID,
			SignedAt:    sess.Signing.SignedAt,
		}
	}
	return resp
}
