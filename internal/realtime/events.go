package realtime

// Event names carried to session channels. One logical channel exists per
// username; every live connection for that identity receives the fanout.
type Event string

const (
	EventEnrollmentConfirmed Event = "EnrollmentConfirmed"
	EventEnrollmentRemoved   Event = "EnrollmentRemoved"
	EventConsultaAnswered    Event = "ConsultaAnswered"
	EventConsultaRemoved     Event = "ConsultaRemoved"
	EventFriendAdded         Event = "FriendAdded"
)

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

// UserChannel maps an identity to its channel name.
func UserChannel(username string) string {
	return "user:" + username
}
