package entities

import "github.com/MohFa13/Heights-Auto-Clinic-Full/internal/db"

// LinkedService is a junction row joined with its catalog entry.
type LinkedService struct {
	db.AppointmentService
	Service db.Service `json:"service"`
}

// AppointmentDetails is an appointment composed with its customer, vehicle
// and linked services, as returned by the API.
type AppointmentDetails struct {
	db.Appointment
	Customer db.Customer     `json:"customer"`
	Vehicle  db.Vehicle      `json:"vehicle"`
	Services []LinkedService `json:"appointmentServices"`
}
