package types

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"omitempty,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	ProfileType     string `json:"profile_type" binding:"omitempty,profile_type"`
	Phone           string `json:"phone" binding:"max=20"`
	City            string `json:"city" binding:"max=100"`
	Language        string `json:"language" binding:"omitempty,language"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left alone.
type UpdateProfileRequest struct {
	Phone       *string  `json:"phone" binding:"omitempty,max=20"`
	ProfileType *string  `json:"profile_type" binding:"omitempty,profile_type"`
	LocationLat *float64 `json:"location_lat" binding:"omitempty,gte=-90,lte=90"`
	LocationLng *float64 `json:"location_lng" binding:"omitempty,gte=-180,lte=180"`
	City        *string  `json:"city" binding:"omitempty,max=100"`
	ReceiveSMS  *bool    `json:"receive_sms"`
	ReceivePush *bool    `json:"receive_push"`
	Language    *string  `json:"language" binding:"omitempty,language"`
}

// LocationRequest accepts coordinates as JSON numbers or numeric strings.
type LocationRequest struct {
	Latitude  any    `json:"latitude"`
	Longitude any    `json:"longitude"`
	City      string `json:"city"`
}

// CreateReportRequest is the body of POST /alerts/reports.
type CreateReportRequest struct {
	Latitude        *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	City            string   `json:"city" binding:"required,max=100"`
	Symptoms        string   `json:"symptoms" binding:"required,symptom"`
	Description     string   `json:"description"`
	TemperatureFelt *float64 `json:"temperature_felt" binding:"required,gte=-30,lte=70"`
	HasShade        *bool    `json:"has_shade"`
	HasWaterAccess  *bool    `json:"has_water_access"`
}
