package models

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusApproved  OrderStatus = "APPROVED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusDelivered OrderStatus = "DELIVERED"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusApproved: true, StatusCancelled: true},
	StatusApproved:  {StatusDelivered: true, StatusCancelled: true},
	StatusCancelled: {},
	StatusDelivered: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// AllowedTransitions returns the statuses reachable from the given one.
// Used to build error messages naming the legal next states.
func AllowedTransitions(from OrderStatus) []OrderStatus {
	order := []OrderStatus{StatusPending, StatusApproved, StatusCancelled, StatusDelivered}
	var out []OrderStatus
	for _, s := range order {
		if validNext[from][s] {
			out = append(out, s)
		}
	}
	return out
}

// ParseOrderStatus validates a status name received over the wire.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusApproved, StatusCancelled, StatusDelivered:
		return OrderStatus(s), true
	}
	return "", false
}
