package models

// Location holds coordinates as stringified decimal degrees, the format the
// mobile client submits and stores.
type Location struct {
	Latitude  string `dynamodbav:"latitude" json:"latitude"`
	Longitude string `dynamodbav:"longitude" json:"longitude"`
}

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID       string    `dynamodbav:"userId" json:"userId"`
	Name         string    `dynamodbav:"name" json:"name"`
	Phone        string    `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	Email        string    `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Instagram    string    `dynamodbav:"instagram,omitempty" json:"instagram,omitempty"`
	ImageURL     string    `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	PasswordHash string    `dynamodbav:"passwordHash,omitempty" json:"-"`
	Location     *Location `dynamodbav:"location,omitempty" json:"location,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
