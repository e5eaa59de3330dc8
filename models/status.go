package models

// BusinessStatus is the moderation state of a business listing.
type BusinessStatus string

const (
	BusinessPending  BusinessStatus = "pending"
	BusinessApproved BusinessStatus = "approved"
	BusinessRejected BusinessStatus = "rejected"
)

// AppointmentStatus is the booking state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ReviewStatus is the publish state of a review. Flagging is tracked separately.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// An admin decision may be repeated or overwritten by the opposite one.
// Nothing returns a business to pending.
var businessTransitions = map[BusinessStatus][]BusinessStatus{
	BusinessPending:  {BusinessApproved, BusinessRejected},
	BusinessApproved: {BusinessApproved, BusinessRejected},
	BusinessRejected: {BusinessRejected, BusinessApproved},
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
	AppointmentCompleted: nil,
	AppointmentCancelled: nil,
}

var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewPending:  {ReviewApproved, ReviewRejected},
	ReviewApproved: {ReviewApproved},
	ReviewRejected: {ReviewRejected},
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s BusinessStatus) Valid() bool {
	_, ok := businessTransitions[s]
	return ok
}

func (s BusinessStatus) CanTransitionTo(next BusinessStatus) bool {
	return allowed(businessTransitions, s, next)
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	return allowed(appointmentTransitions, s, next)
}

// Terminal reports whether no transition leaves s.
func (s AppointmentStatus) Terminal() bool {
	return s.Valid() && len(appointmentTransitions[s]) == 0
}

func (s ReviewStatus) Valid() bool {
	_, ok := reviewTransitions[s]
	return ok
}

func (s ReviewStatus) CanTransitionTo(next ReviewStatus) bool {
	return allowed(reviewTransitions, s, next)
}
