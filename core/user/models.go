package user

import (
	"time"
)

// User types
const (
	TypeAdmin   = "ADMIN"
	TypeTeacher = "TEACHER"
	TypeStudent = "STUDENT"
)

// Account statuses
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

var (
	AllTypes = []string{TypeAdmin, TypeTeacher, TypeStudent}

	typePriorities = map[string]int{
		TypeAdmin:   3,
		TypeTeacher: 2,
		TypeStudent: 1,
	}
)

func TypePriority(userType string) int {
	return typePriorities[userType]
}

// LastOnlineFormat is the upstream API's wire format for User.LastOnline.
const LastOnlineFormat = "2006-01-02 15:04:05"

// User is the profile the upstream API returns on login and that the portal
// persists under the "user" state key.
type User struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	UserType      string `json:"user_type"`
	AccountStatus string `json:"account_status"`
	LastOnline    string `json:"last_online,omitempty"` // LastOnlineFormat
}

func (u User) IsAdmin() bool   { return u.UserType == TypeAdmin }
func (u User) IsTeacher() bool { return u.UserType == TypeTeacher }
func (u User) IsStudent() bool { return u.UserType == TypeStudent }

func (u User) IsActive() bool { return u.AccountStatus == StatusActive }

func (u User) LastOnlineTime() (time.Time, error) {
	return time.Parse(LastOnlineFormat, u.LastOnline)
}
