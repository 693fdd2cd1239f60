package domain

import "strings"

// UsersCollection is the collection holding User documents.
const UsersCollection = "users"

type User struct {
	Document     `bson:",inline"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"passwordHash"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
