package domain

import "time"

// Session is a discovery conversation driven by a chat front end.
type Session struct {
	ID         string
	Transcript Transcript
	Pending    string
	UpdatedAt  time.Time
}

type SessionStore interface {
	Get(chatID int64, ttl time.Duration) (Session, bool)
	Save(chatID int64, session Session)
	Delete(chatID int64)
}
