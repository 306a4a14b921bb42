package server

import "net/mail"

const minPasswordLength = 8

func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

func validPassword(password string) bool {
	return len(password) >= minPasswordLength
}
