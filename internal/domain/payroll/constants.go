package payroll

const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"

	WarningNegativeNet = "negative_net"
)

var statuses = map[string]struct{}{
	StatusDraft:     {},
	StatusPending:   {},
	StatusApproved:  {},
	StatusPaid:      {},
	StatusCancelled: {},
}
