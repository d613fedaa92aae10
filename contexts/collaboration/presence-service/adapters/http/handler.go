package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"retroboard/contexts/collaboration/presence-service/application"
	"retroboard/contexts/collaboration/presence-service/domain/entities"
	httptransport "retroboard/contexts/collaboration/presence-service/transport/http"
)

type Handler struct {
	Presence application.Service
	Logger   *slog.Logger
}

func (h Handler) JoinHandler(
	ctx context.Context,
	retroID string,
	userID string,
	userName string,
	req httptransport.JoinRequest,
) (httptransport.JoinResponse, error) {
	displayName := req.DisplayName
	if displayName == "" {
		displayName = userName
	}
	result, err := h.Presence.Join(ctx, application.JoinInput{
		RetrospectiveID: retroID,
		UserID:          userID,
		DisplayName:     displayName,
		AvatarURL:       req.AvatarURL,
	})
	if err != nil {
		return httptransport.JoinResponse{}, err
	}
	presence := make([]httptransport.ParticipantResponse, 0, len(result.Participants))
	for _, participant := range result.Participants {
		presence = append(presence, toParticipantResponse(participant))
	}
	return httptransport.JoinResponse{
		Participant:      toParticipantResponse(result.Current),
		Presence:         presence,
		ParticipantCount: len(presence),
	}, nil
}

func (h Handler) LeaveHandler(ctx context.Context, retroID, userID string) error {
	return h.Presence.Leave(ctx, retroID, userID)
}

func (h Handler) HeartbeatHandler(ctx context.Context, retroID, userID string) error {
	return h.Presence.Heartbeat(ctx, retroID, userID)
}

func (h Handler) ListParticipantsHandler(ctx context.Context, retroID string) (httptransport.ParticipantListResponse, error) {
	participants, err := h.Presence.List(ctx, retroID)
	if err != nil {
		return httptransport.ParticipantListResponse{}, err
	}
	items := make([]httptransport.ParticipantResponse, 0, len(participants))
	for _, participant := range participants {
		items = append(items, toParticipantResponse(participant))
	}
	return httptransport.ParticipantListResponse{
		Participants:     items,
		ParticipantCount: len(items),
	}, nil
}

func toParticipantResponse(participant entities.Participant) httptransport.ParticipantResponse {
	return httptransport.ParticipantResponse{
		ParticipantID:   participant.ParticipantID,
		RetrospectiveID: participant.RetrospectiveID,
		UserID:          participant.UserID,
		DisplayName:     participant.DisplayName,
		AvatarURL:       participant.AvatarURL,
		Role:            string(participant.Role),
		IsOnline:        participant.IsOnline,
		JoinedAt:        participant.JoinedAt.UTC().Format(time.RFC3339),
		LastActive:      participant.LastActive.UTC().Format(time.RFC3339),
	}
}
