package auth

import "strings"

// DefaultProfileCollection is the document store collection receiving new
// reader profiles.
const DefaultProfileCollection = "user"

// Placeholder profile values given to every new reader.
const (
	DefaultQuote      = "Life is to easy"
	DefaultProfession = "Android Developer"
)

// Profile is the reader record created after a successful sign-up.
type Profile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Quote       string `json:"quote"`
	Profession  string `json:"profession"`
}

// NewProfile builds the record for a freshly signed-up user.
func NewProfile(userID, email string) Profile {
	return Profile{
		UserID:      userID,
		DisplayName: DisplayName(email),
		AvatarURL:   "",
		Quote:       DefaultQuote,
		Profession:  DefaultProfession,
	}
}

// DisplayName is the part of email before the first @.
func DisplayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

// Fields returns the profile as a document store mapping.
func (p Profile) Fields() map[string]any {
	return map[string]any{
		"user_id":      p.UserID,
		"display_name": p.DisplayName,
		"avatar_url":   p.AvatarURL,
		"quote":        p.Quote,
		"profession":   p.Profession,
	}
}
