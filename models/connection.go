package models

// Connection is one document per user holding the ids of everyone that user
// is connected to. Semantically a set; stored in insertion order and
// duplicates are never written.
type Connection struct {
	UserID         string   `dynamodbav:"userId" json:"userId"`
	UserConnection []string `dynamodbav:"userConnection" json:"userConnection"`
}

// ConnectionsTable is the DynamoDB table name for connection records
const ConnectionsTable = "Connections"
