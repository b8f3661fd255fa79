package widget

import "time"

// NoticeKind classifies a non-fatal notice shown to the user.
type NoticeKind string

const (
	NoticeLocationDenied      NoticeKind = "location_denied"
	NoticeLocationUnavailable NoticeKind = "location_unavailable"
)

var noticeMessages = map[NoticeKind]string{
	NoticeLocationDenied:      "Location access denied. Using default location.",
	NoticeLocationUnavailable: "Geolocation is not available. Using default location.",
}

// Notice is a structured, non-fatal message for the rendering layer to display.
type Notice struct {
	ID      string     `json:"id"`
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	Time    time.Time  `json:"time"`
}

// NoticeSink receives notices emitted by the controller.
type NoticeSink interface {
	Save(n Notice)
}
