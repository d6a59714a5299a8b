package entities

import "time"

// CustomerInput is the customer section of a booking request. Customers are
// deduplicated by phone number; name and phone are required.
type CustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// VehicleInput is the vehicle section of a booking request. A fresh vehicle
// row is created for every booking.
type VehicleInput struct {
	Year         string `json:"year"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate,omitempty"`
	VIN          string `json:"vin,omitempty"`
}

// AppointmentInput is the appointment section of a booking request.
// Duration is advisory: when ServiceIDs are present the server recomputes it
// from the catalog.
type AppointmentInput struct {
	ServiceType     string    `json:"serviceType"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Duration        int       `json:"duration"`
	ServiceLocation string    `json:"serviceLocation,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	EstimatedPrice  string    `json:"estimatedPrice,omitempty"`
	ServiceIDs      []string  `json:"serviceIds"`
}

// BookingRequest is the full payload of POST /api/appointments. The three
// sections are pointers so that an absent section is distinguishable from an
// empty one.
type BookingRequest struct {
	Customer    *CustomerInput    `json:"customer"`
	Vehicle     *VehicleInput     `json:"vehicle"`
	Appointment *AppointmentInput `json:"appointment"`
}
