package contact

import (
	"database/sql"
	"time"
)

// Contact channels.
const (
	ChannelPhone   = "Phone"
	ChannelEmail   = "Email"
	ChannelMeeting = "Meeting"
	ChannelChat    = "Chat"
)

var Channels = []string{ChannelPhone, ChannelEmail, ChannelMeeting, ChannelChat}

func ValidChannel(ch string) bool {
	for _, known := range Channels {
		if ch == known {
			return true
		}
	}
	return false
}

type Contact struct {
	ID          int64          `json:"id" db:"id"`
	CustomerID  int64          `json:"customer_id" db:"customer_id"`
	UserID      sql.NullInt64  `json:"user_id,omitempty" db:"user_id"`
	Channel     string         `json:"channel" db:"channel"`
	Subject     sql.NullString `json:"subject,omitempty" db:"subject"`
	Notes       sql.NullString `json:"notes,omitempty" db:"notes"`
	ContactTime time.Time      `json:"contact_time" db:"contact_time"`
}

// Info is a contact row joined with the customer and the attributed user.
type Info struct {
	Contact
	CustomerFirstName string         `json:"customer_first_name" db:"first_name"`
	CustomerLastName  string         `json:"customer_last_name" db:"last_name"`
	UserName          sql.NullString `json:"user_name,omitempty" db:"user_name"`
}

func (c Info) CustomerName() string {
	return c.CustomerLastName + ", " + c.CustomerFirstName
}
