package models

// Notification tags classifying the intent of a record.
const (
	TagConnect = "Connect"
	TagAccept  = "Accept"
)

// Notification is an append-only record of a connection-request event.
// UserID is the recipient, ConnectID the other party. Viewed flips to true
// exactly once; this layer never resets it to false.
type Notification struct {
	NotificationID string `dynamodbav:"notificationId" json:"_id"`
	UserID         string `dynamodbav:"userId" json:"userId"`
	ConnectID      string `dynamodbav:"connectId" json:"connectId"`
	Message        string `dynamodbav:"message" json:"message"`
	Viewed         bool   `dynamodbav:"viewed" json:"viewed"`
	Tag            string `dynamodbav:"tag,omitempty" json:"tag,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt" json:"timestamp"`
}

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"

// NotificationsByUserIndex is the GSI keyed by the recipient's userId
const NotificationsByUserIndex = "userId-index"
