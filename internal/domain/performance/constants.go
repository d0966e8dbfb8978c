package performance

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusClosed    = "closed"
)

var statuses = map[string]struct{}{
	StatusDraft:     {},
	StatusSubmitted: {},
	StatusApproved:  {},
	StatusClosed:    {},
}
