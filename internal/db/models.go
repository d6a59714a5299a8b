package db

import "time"

// Appointment statuses. Transitions are unconstrained: callers may move an
// appointment from any status to any other.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Service types.
const (
	ServiceTypeShop   = "shop"
	ServiceTypeMobile = "mobile"
)

// ValidStatus reports whether s belongs to the closed appointment status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidServiceType reports whether s is a known service type.
func ValidServiceType(s string) bool {
	return s == ServiceTypeShop || s == ServiceTypeMobile
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Vehicle struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customerId"`
	Year         string    `json:"year"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"licensePlate,omitempty"`
	VIN          string    `json:"vin,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Service struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	Duration           int    `json:"duration"`
	BasePrice          string `json:"basePrice,omitempty"`
	AvailableForMobile bool   `json:"availableForMobile"`
	IsActive           bool   `json:"isActive"`
}

type Appointment struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customerId"`
	VehicleID       string    `json:"vehicleId"`
	ServiceType     string    `json:"serviceType"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Duration        int       `json:"duration"`
	Status          string    `json:"status"`
	ServiceLocation string    `json:"serviceLocation,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	EstimatedPrice  string    `json:"estimatedPrice,omitempty"`
	ActualPrice     string    `json:"actualPrice,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// End returns the instant the appointment's slot is released.
func (a Appointment) End() time.Time {
	return a.AppointmentDate.Add(time.Duration(a.Duration) * time.Minute)
}

type AppointmentService struct {
	ID            string `json:"id"`
	AppointmentID string `json:"appointmentId"`
	ServiceID     string `json:"serviceId"`
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
}
