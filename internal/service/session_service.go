package service

import (
	"context"
	"io"

	"legal-docchat-be/internal/dto"
	"legal-docchat-be/internal/mapper"
	"legal-docchat-be/pkg/citation"
	"legal-docchat-be/pkg/session"
	"legal-docchat-be/pkg/suggest"
)

// ISessionService is the DTO-facing surface over the session state machine.
type ISessionService interface {
	Upload(ctx context.Context, filename, contentType string, size int64, file io.Reader) (*dto.SessionSnapshotResponse, error)
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	Reset(ctx context.Context) (*dto.SessionSnapshotResponse, error)
	Snapshot() *dto.SessionSnapshotResponse
	Suggestions(input string) *dto.SuggestionsResponse
	LookupCitation(reference string) *dto.CitationLookupResponse
	AskAboutCitation(ctx context.Context, reference string) (*dto.AskResponse, error)
}

type sessionService struct {
	manager *session.Manager
	lookup  *citation.Lookup
}

func NewSessionService(manager *session.Manager, lookup *citation.Lookup) ISessionService {
	return &sessionService{
		manager: manager,
		lookup:  lookup,
	}
}

func (s *sessionService) Upload(ctx context.Context, filename, contentType string, size int64, file io.Reader) (*dto.SessionSnapshotResponse, error) {
	snap, err := s.manager.SubmitFile(ctx, filename, contentType, size, file)
	if err != nil {
		return nil, err
	}
	return mapper.ToSessionSnapshot(snap), nil
}

func (s *sessionService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	return s.ask(ctx, req.Question)
}

func (s *sessionService) Reset(ctx context.Context) (*dto.SessionSnapshotResponse, error) {
	snap, err := s.manager.Reset(ctx)
	if err != nil {
		return nil, err
	}
	s.lookup.Clear()
	return mapper.ToSessionSnapshot(snap), nil
}

func (s *sessionService) Snapshot() *dto.SessionSnapshotResponse {
	return mapper.ToSessionSnapshot(s.manager.Snapshot())
}

func (s *sessionService) Suggestions(input string) *dto.SuggestionsResponse {
	matches := suggest.Match(input, s.manager.SuggestionCatalog())
	if matches == nil {
		matches = []string{}
	}
	return &dto.SuggestionsResponse{Suggestions: matches}
}

func (s *sessionService) LookupCitation(reference string) *dto.CitationLookupResponse {
	exp := s.lookup.Explain(reference)
	return &dto.CitationLookupResponse{
		Reference: exp.Reference,
		Content:   exp.Content,
		FollowUp:  exp.FollowUp,
	}
}

// AskAboutCitation feeds the synthesized "ask about this section" question
// back through the normal question-submit path.
func (s *sessionService) AskAboutCitation(ctx context.Context, reference string) (*dto.AskResponse, error) {
	return s.ask(ctx, citation.FollowUpQuestion(reference))
}

func (s *sessionService) ask(ctx context.Context, question string) (*dto.AskResponse, error) {
	accepted, reply, err := s.manager.SubmitQuestion(ctx, question)
	if err != nil {
		return nil, err
	}
	res := &dto.AskResponse{Accepted: accepted}
	if accepted && reply != nil {
		msg := mapper.ToChatMessage(*reply)
		res.Reply = &msg
	}
	return res, nil
}
