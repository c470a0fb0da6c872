package types

// RequestStatus is the lifecycle status of a lead request. Transitions are
// unconstrained among the three values; only an authenticated operator may
// change it, and nothing changes it automatically.
type RequestStatus string

const (
	StatusNew        RequestStatus = "new"
	StatusInProgress RequestStatus = "in_progress"
	StatusClosed     RequestStatus = "closed"
)

// StatusOptions lists the recognized statuses in display order.
var StatusOptions = []RequestStatus{StatusNew, StatusInProgress, StatusClosed}

// Valid reports whether s is one of the recognized statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// StatusDisplay describes how a status is rendered in the admin dashboard.
type StatusDisplay struct {
	Label      string `json:"label"`
	BadgeClass string `json:"badge_class"`
	RowClass   string `json:"row_class"`
}

// Display returns the display descriptor for the status. The mapping is
// exhaustive over the enum; unknown values get a neutral fallback so a
// legacy row never breaks rendering.
func (s RequestStatus) Display() StatusDisplay {
	switch s {
	case StatusNew:
		return StatusDisplay{Label: "Новая", BadgeClass: "status_new", RowClass: "rowStatus_new"}
	case StatusInProgress:
		return StatusDisplay{Label: "В работе", BadgeClass: "status_in_progress", RowClass: "rowStatus_in_progress"}
	case StatusClosed:
		return StatusDisplay{Label: "Закрыта", BadgeClass: "status_closed", RowClass: "rowStatus_closed"}
	default:
		return StatusDisplay{Label: string(s), BadgeClass: "status_unknown", RowClass: "rowStatus_unknown"}
	}
}
