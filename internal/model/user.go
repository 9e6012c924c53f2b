// Package model defines the data structures used throughout the application.
package model

import "time"

// SocialProviders is the fixed set of social-link keys a profile may carry.
// Links are validated in this order, so the first offending key wins.
var SocialProviders = []string{"youtube", "facebook", "twitter", "github", "instagram", "website"}

// PersonalInfo is the identity portion of a user record.
//
// WHY Password string (not *string)?
// An account created purely through a federated provider never gets a
// password. We use the empty string as the "no password set" zero value
// rather than a nullable pointer — simpler to work with, and a bcrypt
// comparison against an empty hash can never succeed, so "no hash → no
// password login" holds without extra checks.
//
// The password hash is never serialised: `json:"-"` keeps it out of every
// response, including the public profile endpoint.
type PersonalInfo struct {
	Fullname   string `json:"fullname"    db:"fullname"`
	Email      string `json:"email"       db:"email"`    // unique, stored case-sensitive
	Username   string `json:"username"    db:"username"` // unique, derived from the email local-part
	Password   string `json:"-"           db:"password_hash"`
	ProfileImg string `json:"profile_img" db:"profile_img"`
	Bio        string `json:"bio"         db:"bio"` // at most 150 characters
}

// SocialLinks maps the fixed provider keys to profile URLs.
// Every field is optional; the empty string means "not set".
type SocialLinks struct {
	YouTube   string `json:"youtube"   db:"link_youtube"`
	Facebook  string `json:"facebook"  db:"link_facebook"`
	Twitter   string `json:"twitter"   db:"link_twitter"`
	GitHub    string `json:"github"    db:"link_github"`
	Instagram string `json:"instagram" db:"link_instagram"`
	Website   string `json:"website"   db:"link_website"`
}

// ByProvider returns the link value for one of the SocialProviders keys.
// Unknown keys return the empty string.
func (s SocialLinks) ByProvider(key string) string {
	switch key {
	case "youtube":
		return s.YouTube
	case "facebook":
		return s.Facebook
	case "twitter":
		return s.Twitter
	case "github":
		return s.GitHub
	case "instagram":
		return s.Instagram
	case "website":
		return s.Website
	}
	return ""
}

// User is the sole persisted entity: one row per account.
//
// GoogleAuth/FacebookAuth record which federated provider(s) created or are
// linked to the account. Both false means the account came from local signup.
// A provider flag being true does not preclude a password hash also existing;
// no operation in this service may break that.
//
// Admin is decided once at creation from the configured allow-list of admin
// emails and never changes afterwards.
type User struct {
	ID           string       `json:"id"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	SocialLinks  SocialLinks  `json:"social_links"`
	Admin        bool         `json:"admin"`
	GoogleAuth   bool         `json:"google_auth"`
	FacebookAuth bool         `json:"facebook_auth"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// PublicProfile is the redacted view of a User returned by the public
// profile lookup: no password hash, no provider flags, no admin bit.
type PublicProfile struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	SocialLinks  SocialLinks  `json:"social_links"`
	JoinedAt     time.Time    `json:"joinedAt"`
}

// Public returns the redacted profile view of u. The password hash is
// blanked in the copy, not just hidden by the json tag, so the value can
// never travel further than this struct.
func (u *User) Public() *PublicProfile {
	info := u.PersonalInfo
	info.Password = ""
	return &PublicProfile{
		PersonalInfo: info,
		SocialLinks:  u.SocialLinks,
		JoinedAt:     u.CreatedAt,
	}
}
