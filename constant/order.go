package constant

// OrderStatus is the closed set of order lifecycle states. Status strings
// are stored as-is so transition errors stay readable.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPickedUp  OrderStatus = "PICKED_UP"
	OrderStatusReturned  OrderStatus = "RETURNED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderTransitions is the full legal transition table. Guards beyond status
// (actor role, ownership) live in the application layer.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPickedUp, OrderStatusCancelled},
	OrderStatusPickedUp:  {OrderStatusReturned},
	OrderStatusReturned:  {OrderStatusCompleted},
}

// CanTransitionOrder reports whether from -> to is a legal order transition.
func CanTransitionOrder(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "RESERVED"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// HoldsStock reports whether a reservation in this status counts against
// the variant's stock for the overlap-demand check.
func (s ReservationStatus) HoldsStock() bool {
	return s == ReservationStatusReserved || s == ReservationStatusActive
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)
