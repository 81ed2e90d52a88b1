package types

import "time"

// InviteStatus is the stored status of an invite. There is no ACCEPTED
// status: acceptance deletes the record, absence is the terminal state.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusRejected InviteStatus = "REJECTED"
)

// IsValid checks if the status is a known invite status.
func (s InviteStatus) IsValid() bool {
	switch s {
	case InviteStatusPending, InviteStatusRejected:
		return true
	default:
		return false
	}
}

// Invite asks a registered user to join a trip at a stated permission level.
// Trip name and host name are denormalized onto the record so the guest's
// inbox renders without loading the trip.
type Invite struct {
	ID         string       `json:"id"`
	TripID     string       `json:"tripId"`
	TripName   string       `json:"tripName"`
	HostName   string       `json:"hostName"`
	HostEmail  string       `json:"hostEmail"`
	GuestEmail string       `json:"guestEmail"`
	Permission Permission   `json:"permission"`
	Status     InviteStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}
