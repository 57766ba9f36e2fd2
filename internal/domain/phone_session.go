package domain

import "time"

// PhoneSession binds a phone to a pending one-time code. At most one live
// session exists per phone.
type PhoneSession struct {
	Phone     Phone
	OTP       string
	ExpiresAt time.Time
}
