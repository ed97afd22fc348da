package models

import (
	"time"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by TokenManager on register or login
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
