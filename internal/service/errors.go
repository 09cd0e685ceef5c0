package service

import "errors"

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUsernameTaken        = errors.New("a user with that username already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrAlertNotFound        = errors.New("alert not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrNoWeatherData        = errors.New("no weather data")
	ErrCityNotFound         = errors.New("city not found")
)
