package http

// ErrorResponse is the transport error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type JoinRequest struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type ParticipantResponse struct {
	ParticipantID   string `json:"participant_id"`
	RetrospectiveID string `json:"retrospective_id"`
	UserID          string `json:"user_id"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	Role            string `json:"role"`
	IsOnline        bool   `json:"is_online"`
	JoinedAt        string `json:"joined_at"`
	LastActive      string `json:"last_active"`
}

type JoinResponse struct {
	Participant      ParticipantResponse   `json:"participant"`
	Presence         []ParticipantResponse `json:"presence"`
	ParticipantCount int                   `json:"participant_count"`
}

type ParticipantListResponse struct {
	Participants     []ParticipantResponse `json:"participants"`
	ParticipantCount int                   `json:"participant_count"`
}
