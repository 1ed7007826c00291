package domain

type User struct {
	UserID string
	Email  string
	Name   string
}
