package models

import "time"

// CommitRecord represents a single commit row from the extracted log.
// Name and email are stored lower-cased so that case variants of the
// same author compare equal.
type CommitRecord struct {
	Date        time.Time `json:"date"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	CommitSHA   string    `json:"commit_sha"`
}

// Month returns the calendar month bucket of the commit, e.g. "2017-03".
func (c *CommitRecord) Month() string {
	return c.Date.Format("2006-01")
}
