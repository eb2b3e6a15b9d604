package entity

import "errors"

var (
	ErrSessionUnavailable  = errors.New("browser session unavailable")
	ErrLoginFailed         = errors.New("login failed")
	ErrNavigationFailed    = errors.New("navigation to job creation page failed")
	ErrDiscriminatorSwitch = errors.New("section mode switch failed")
	ErrSubmitNotFound      = errors.New("submit control not found")
)
