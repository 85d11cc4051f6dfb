package models

type UserRole string
type VerificationStatus string
type JobStatus string
type ApplicationStatus string
type PayPeriod string
type EmploymentType string
type ReviewType string

const (
	UserRoleProvider  UserRole = "provider"
	UserRoleRequester UserRole = "requester"
	UserRoleAdmin     UserRole = "admin"
	// UserRoleSystem is used by scheduled or internal callers, never stored.
	UserRoleSystem UserRole = "system"

	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"

	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	PayPeriodHourly  PayPeriod = "hourly"
	PayPeriodDaily   PayPeriod = "daily"
	PayPeriodMonthly PayPeriod = "monthly"

	EmploymentTemporary EmploymentType = "temporary"
	EmploymentPermanent EmploymentType = "permanent"

	// ReviewTypeProvider: the requester reviews the hired provider.
	ReviewTypeProvider ReviewType = "provider-review"
	// ReviewTypeRequester: the provider reviews the requester.
	ReviewTypeRequester ReviewType = "requester-review"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleProvider, UserRoleRequester, UserRoleAdmin:
		return true
	}
	return false
}

func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// jobTransitions lists every legal edge of the job state machine.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusOpen:       {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted, JobStatusCancelled},
}

// CanTransitionTo reports whether s -> next is an edge of the state machine.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, to := range jobTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

func (p PayPeriod) Valid() bool {
	switch p {
	case PayPeriodHourly, PayPeriodDaily, PayPeriodMonthly:
		return true
	}
	return false
}

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentTemporary, EmploymentPermanent:
		return true
	}
	return false
}
