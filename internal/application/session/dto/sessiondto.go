// Package dto carries the transport representations of payment sessions.
// Field names follow the public API contract (camelCase, RFC3339 times).
package dto

import (
	"github.com/innovinitylabs/x402/internal/domain/session"
	"github.com/innovinitylabs/x402/internal/shared/biztime"
)

type SessionDTO struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Amount         string `json:"amount"`
	ServiceRequest string `json:"serviceRequest,omitempty"`
	Used           bool   `json:"used,omitempty"`
	CreatedAt      string `json:"createdAt"`
	ExpiresAt      string `json:"expiresAt"`
}

func ToSessionDTO(s *session.Session) *SessionDTO {
	return &SessionDTO{
		ID:             s.ID(),
		Type:           s.Kind().String(),
		Amount:         s.Amount().Decimal(),
		ServiceRequest: s.ServiceRequest(),
		Used:           s.Used(),
		CreatedAt:      biztime.FormatMetadataTime(s.CreatedAt()),
		ExpiresAt:      biztime.FormatMetadataTime(s.ExpiresAt()),
	}
}

func ToSessionDTOs(sessions []*session.Session) []*SessionDTO {
	dtos := make([]*SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, ToSessionDTO(s))
	}
	return dtos
}
