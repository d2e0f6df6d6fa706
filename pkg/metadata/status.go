package metadata

import "fmt"

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

func NewReviewStatus(value string) (ReviewStatus, error) {
	status := ReviewStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid review status: %s", value)
	}
	return status, nil
}

func (s ReviewStatus) isValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s ReviewStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s ReviewStatus) String() string {
	return string(s)
}
