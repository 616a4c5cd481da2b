package models

// Message is immutable once created. ConversationID keys the symmetric
// (sender, receiver) pair so history for (A,B) and (B,A) lands in one
// partition, sorted by CreatedAt.
type Message struct {
	MessageID      string `dynamodbav:"messageId" json:"_id"`
	ConversationID string `dynamodbav:"conversationId" json:"-"`
	Sender         string `dynamodbav:"sender" json:"sender"`
	Receiver       string `dynamodbav:"receiver" json:"receiver"`
	Content        string `dynamodbav:"content" json:"content"`
	CreatedAt      string `dynamodbav:"createdAt" json:"timestamp"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"

// MessagesByConversationIndex is the GSI keyed by conversationId with
// createdAt as the range key
const MessagesByConversationIndex = "conversation-index"

// ConversationID returns the canonical pair key for two user ids.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}
