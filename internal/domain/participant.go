// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxNameLen = 36

var (
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)

// ParticipantID is the opaque transport-assigned identity of one connection.
type ParticipantID string

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Participant is one connected user inside the classroom session.
// Owned exclusively by the session store; mutated only through it.
type Participant struct {
	ID           ParticipantID `json:"id"`
	Name         string        `json:"name"`
	Role         Role          `json:"role"`
	CanDraw      bool          `json:"canDraw"`
	StreamActive bool          `json:"streamActive"`
	InVideoCall  bool          `json:"inVideoCall"`
	PeerID       string        `json:"peerId,omitempty"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
// Everyone starts as a student with drawing allowed.
func NewParticipant(id ParticipantID, name string) (*Participant, error) {
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	return &Participant{
		ID:      id,
		Name:    name,
		Role:    RoleStudent,
		CanDraw: true,
	}, nil
}

func (p *Participant) IsAdmin() bool { return p.Role == RoleAdmin }
