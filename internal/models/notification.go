package models

// Notification action identifiers
const (
	NotificationActionOpen  = "open"
	NotificationActionClose = "close"
)

// NotificationAction is a button shown on a notification
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// NotificationData is the payload attached to a shown notification
type NotificationData struct {
	DateOfArrival int64  `json:"date_of_arrival"`
	PrimaryKey    string `json:"primary_key"`
}

// Notification is what the push handler asks the presenter to display
type Notification struct {
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon,omitempty"`
	Badge   string               `json:"badge,omitempty"`
	Vibrate []int                `json:"vibrate,omitempty"`
	Data    NotificationData     `json:"data"`
	Actions []NotificationAction `json:"actions"`
}
