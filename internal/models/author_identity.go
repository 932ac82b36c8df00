package models

import (
	"strings"
	"time"
)

// AuthorIdentity is the canonical author record that all aliases of one
// real contributor resolve to. Identities are keyed by canonical email;
// the display name is informational only and never merges identities.
type AuthorIdentity struct {
	CanonicalEmail   string `json:"canonical_email"`
	DisplayName      string `json:"display_name"`
	Host             string `json:"host"`
	IsPublicProvider bool   `json:"is_public_provider"`
}

// NewAuthorIdentity creates an identity for a canonical email
func NewAuthorIdentity(canonicalEmail, displayName, host string, isPublicProvider bool) *AuthorIdentity {
	return &AuthorIdentity{
		CanonicalEmail:   canonicalEmail,
		DisplayName:      displayName,
		Host:             host,
		IsPublicProvider: isPublicProvider,
	}
}

// EmailDomain returns the domain part of an email address, or "" if the
// address has no "@".
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

// EmailGroup is one observed (email, name) pair among the commit records,
// with its commit count and most recent commit date. Groups are built once
// per analysis run and never mutated afterward.
type EmailGroup struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Commits    int       `json:"commits"`
	LastCommit time.Time `json:"last_commit"`
}
