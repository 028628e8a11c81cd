package models

// Realtime event types pushed over the websocket channel.
const (
	EventInit      = "init"
	EventNewRecord = "new_record"
	EventPong      = "pong"
)

// Event is one realtime message pushed to a connected client.
type Event struct {
	Type    string       `json:"type"`
	Record  *RecordView  `json:"record,omitempty"`
	Records []RecordView `json:"records,omitempty"`
	TS      int64        `json:"ts,omitempty"`
}

// ClientMessage is an inbound websocket message from a client. Only ping is
// understood; everything else is ignored.
type ClientMessage struct {
	Type string `json:"type"`
}
