// Package repository defines error values shared across repositories.
// These sentinels let handlers and the reservation engine distinguish
// failure scenarios with errors.Is instead of inspecting driver errors.
package repository

import "errors"

// ErrMemberNotFound is returned when a member id or email does not resolve.
var ErrMemberNotFound = errors.New("member not found")

// ErrProductNotFound is returned when a product id does not resolve.
var ErrProductNotFound = errors.New("product not found")

// ErrTicketNotFound is returned when a requested ticket id does not resolve.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrReservationNotFound is returned when a reservation id does not resolve.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrReviewNotFound is returned when a review id does not resolve.
var ErrReviewNotFound = errors.New("review not found")

// ErrEmailExists is returned on registration with a taken email address.
var ErrEmailExists = errors.New("email already exists")

// ErrInsufficientQuantity is returned when a floor-checked inventory
// decrement would take product quantity below zero.
var ErrInsufficientQuantity = errors.New("not enough remaining quantity")

// ErrInsufficientPoints is returned when a floor-checked point debit
// would take a member's balance below zero.
var ErrInsufficientPoints = errors.New("not enough points")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because
// of dependent state, such as deleting a product that has reservations.
// Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
