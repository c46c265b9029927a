package mapper

import (
	"legal-docchat-be/internal/dto"
	"legal-docchat-be/pkg/citation"
	"legal-docchat-be/pkg/store"
)

// ToSessionSnapshot maps the session to its render DTO. Assistant messages
// get their citation handles resolved here so every surface sees the same
// handles.
func ToSessionSnapshot(s store.Session) *dto.SessionSnapshotResponse {
	snap := &dto.SessionSnapshotResponse{
		State:            s.State,
		LastError:        s.LastError,
		InFlightQuestion: s.InFlightQuestion,
	}

	if s.Document != nil {
		snap.Document = &dto.DocumentDTO{
			ID:         s.Document.ID,
			Filename:   s.Document.Filename,
			UploadedAt: s.Document.UploadedAt,
		}
	}
	if s.SmartSummary != nil {
		snap.SmartSummary = &dto.SummaryDTO{
			KeyRights:        s.SmartSummary.KeyRights,
			TopObligations:   s.SmartSummary.TopObligations,
			TerminationRules: s.SmartSummary.TerminationRules,
			RiskLevel:        s.SmartSummary.RiskLevel,
		}
	}
	if s.RedFlags != nil {
		snap.RedFlags = make([]dto.RedFlagDTO, 0, len(s.RedFlags))
		for _, rf := range s.RedFlags {
			snap.RedFlags = append(snap.RedFlags, dto.RedFlagDTO{
				ID:          rf.ID,
				Title:       rf.Title,
				Severity:    rf.Severity,
				Description: rf.Description,
				Location:    rf.Location,
			})
		}
	}
	if s.SuggestedQuestions != nil {
		snap.SuggestedQuestions = &dto.SuggestedQuestionsDTO{
			Rights:      s.SuggestedQuestions.Rights,
			Termination: s.SuggestedQuestions.Termination,
			Financial:   s.SuggestedQuestions.Financial,
		}
	}

	snap.Transcript = make([]dto.ChatMessageDTO, 0, len(s.Transcript))
	for _, msg := range s.Transcript {
		snap.Transcript = append(snap.Transcript, ToChatMessage(msg))
	}
	return snap
}

// ToChatMessage maps a transcript entry, attaching citation handles for
// assistant text.
func ToChatMessage(msg store.ChatMessage) dto.ChatMessageDTO {
	out := dto.ChatMessageDTO{
		Role:       msg.Role,
		Text:       msg.Text,
		Confidence: msg.Confidence,
		Sources:    msg.Sources,
		Timestamp:  msg.Timestamp,
	}
	if msg.Role == store.RoleAssistant {
		for _, h := range citation.Resolve(msg.Text) {
			out.Citations = append(out.Citations, dto.CitationDTO{
				Reference: h.Reference,
				Start:     h.Start,
				End:       h.End,
			})
		}
	}
	return out
}
