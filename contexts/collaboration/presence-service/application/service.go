package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/presence-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/presence-service/domain/errors"
	"retroboard/contexts/collaboration/presence-service/ports"
	"retroboard/internal/shared/events"
)

// Service tracks who is live inside a retrospective. Join and Leave keep the
// retrospective's denormalized participant count in step with the online set
// and broadcast the change so subscribers never query the count separately.
type Service struct {
	Participants   ports.ParticipantRepository
	Retrospectives ports.RetrospectiveReader
	Hub            ports.EventBroadcaster
	Clock          ports.Clock
	Logger         *slog.Logger
}

type JoinInput struct {
	RetrospectiveID string
	UserID          string
	DisplayName     string
	AvatarURL       string
}

// JoinResult returns the joining participant's own record alongside the full
// live list so the client renders the participant bar from one response.
type JoinResult struct {
	Current      entities.Participant
	Participants []entities.Participant
}

func (s Service) Join(ctx context.Context, input JoinInput) (JoinResult, error) {
	retroID := strings.TrimSpace(input.RetrospectiveID)
	userID := strings.TrimSpace(input.UserID)
	if retroID == "" {
		return JoinResult{}, fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	if userID == "" {
		return JoinResult{}, fmt.Errorf("%w: acting user is required", domainerrors.ErrInvalidInput)
	}

	retro, err := s.Retrospectives.GetRetrospective(ctx, retroID)
	if err != nil {
		return JoinResult{}, err
	}

	role := entities.RoleMember
	if retro.FacilitatorID != "" && retro.FacilitatorID == userID {
		role = entities.RoleFacilitator
	}

	now := s.now()
	participant, found, err := s.Participants.GetParticipant(ctx, retroID, userID)
	if err != nil {
		return JoinResult{}, err
	}
	if !found {
		participant = entities.Participant{
			ParticipantID:   entities.ParticipantID(retroID, userID),
			RetrospectiveID: retroID,
			UserID:          userID,
			JoinedAt:        now,
		}
	}
	participant.Role = role
	participant.IsOnline = true
	participant.LastActive = now
	if name := strings.TrimSpace(input.DisplayName); name != "" {
		participant.DisplayName = name
	}
	if avatar := strings.TrimSpace(input.AvatarURL); avatar != "" {
		participant.AvatarURL = avatar
	}

	if err := s.Participants.UpsertParticipant(ctx, participant); err != nil {
		return JoinResult{}, err
	}

	online, err := s.Participants.ListOnlineParticipants(ctx, retroID)
	if err != nil {
		return JoinResult{}, err
	}
	s.persistCount(ctx, retroID, len(online), now)

	event := events.New(retroID, events.TypeParticipantJoined, now)
	event.ParticipantJoined = &events.ParticipantJoined{
		UserID:           participant.UserID,
		DisplayName:      participant.DisplayName,
		AvatarURL:        participant.AvatarURL,
		Role:             string(participant.Role),
		JoinedAt:         participant.JoinedAt,
		ParticipantCount: len(online),
	}
	s.Hub.Broadcast(retroID, event)

	ResolveLogger(s.Logger).Info("participant joined",
		"event", "presence_participant_joined",
		"module", "collaboration/presence-service",
		"layer", "application",
		"retrospective_id", retroID,
		"user_id", userID,
		"participant_count", len(online),
	)
	return JoinResult{Current: participant, Participants: online}, nil
}

// Leave flips the participant offline. Leaving twice, or leaving without
// having joined, succeeds without side effects.
func (s Service) Leave(ctx context.Context, retroID, userID string) error {
	retroID = strings.TrimSpace(retroID)
	userID = strings.TrimSpace(userID)
	if retroID == "" {
		return fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	if userID == "" {
		return fmt.Errorf("%w: acting user is required", domainerrors.ErrInvalidInput)
	}

	participant, found, err := s.Participants.GetParticipant(ctx, retroID, userID)
	if err != nil {
		return err
	}
	if !found || !participant.IsOnline {
		return nil
	}

	now := s.now()
	participant.IsOnline = false
	participant.LastActive = now
	if err := s.Participants.UpsertParticipant(ctx, participant); err != nil {
		return err
	}

	online, err := s.Participants.ListOnlineParticipants(ctx, retroID)
	if err != nil {
		return err
	}
	s.persistCount(ctx, retroID, len(online), now)

	event := events.New(retroID, events.TypeParticipantLeft, now)
	event.ParticipantLeft = &events.ParticipantLeft{
		UserID:           userID,
		ParticipantCount: len(online),
	}
	s.Hub.Broadcast(retroID, event)

	ResolveLogger(s.Logger).Info("participant left",
		"event", "presence_participant_left",
		"module", "collaboration/presence-service",
		"layer", "application",
		"retrospective_id", retroID,
		"user_id", userID,
		"participant_count", len(online),
	)
	return nil
}

// Heartbeat refreshes activity and re-asserts the online flag. An untracked
// user is not an error: the client may heartbeat before its Join settles.
func (s Service) Heartbeat(ctx context.Context, retroID, userID string) error {
	retroID = strings.TrimSpace(retroID)
	userID = strings.TrimSpace(userID)
	if retroID == "" {
		return fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	if userID == "" {
		return fmt.Errorf("%w: acting user is required", domainerrors.ErrInvalidInput)
	}

	participant, found, err := s.Participants.GetParticipant(ctx, retroID, userID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	participant.IsOnline = true
	participant.LastActive = s.now()
	return s.Participants.UpsertParticipant(ctx, participant)
}

// List returns the retrospective's online participants.
func (s Service) List(ctx context.Context, retroID string) ([]entities.Participant, error) {
	retroID = strings.TrimSpace(retroID)
	if retroID == "" {
		return nil, fmt.Errorf("%w: retrospective_id is required", domainerrors.ErrInvalidInput)
	}
	return s.Participants.ListOnlineParticipants(ctx, retroID)
}

// persistCount is best effort: a stale denormalized count self-heals on the
// next Join/Leave.
func (s Service) persistCount(ctx context.Context, retroID string, count int, now time.Time) {
	if err := s.Retrospectives.SetParticipantCount(ctx, retroID, count, now); err != nil {
		ResolveLogger(s.Logger).Warn("participant count update failed",
			"event", "presence_count_update_failed",
			"module", "collaboration/presence-service",
			"layer", "application",
			"retrospective_id", retroID,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
