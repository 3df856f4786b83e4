package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrForbidden
	ErrConflict
	ErrInvalidTransition
	ErrPricingUnavailable
	ErrInvalidInterval
	ErrAlreadyReturned
	ErrUpstream
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:            "success",
	ErrInternal:           "error internal",
	ErrNotFound:           "data not found",
	ErrInvalidRequest:     "invalid request",
	ErrUnauthorize:        "unauthorize request",
	ErrForbidden:          "actor not allowed for this operation",
	ErrConflict:           "insufficient stock for requested period",
	ErrInvalidTransition:  "invalid status transition",
	ErrPricingUnavailable: "no rental rate configured for required duration",
	ErrInvalidInterval:    "invalid rental interval",
	ErrAlreadyReturned:    "reservation has already been returned",
	ErrUpstream:           "upstream collaborator failure",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:            http.StatusOK,
	ErrInternal:           http.StatusInternalServerError,
	ErrNotFound:           http.StatusNotFound,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrUnauthorize:        http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrConflict:           http.StatusConflict,
	ErrInvalidTransition:  http.StatusBadRequest,
	ErrPricingUnavailable: http.StatusBadRequest,
	ErrInvalidInterval:    http.StatusBadRequest,
	ErrAlreadyReturned:    http.StatusConflict,
	ErrUpstream:           http.StatusBadGateway,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:            "0000",
	ErrInternal:           "0001",
	ErrNotFound:           "0002",
	ErrInvalidRequest:     "0003",
	ErrUnauthorize:        "0004",
	ErrForbidden:          "0005",
	ErrConflict:           "0006",
	ErrInvalidTransition:  "0007",
	ErrPricingUnavailable: "0008",
	ErrInvalidInterval:    "0009",
	ErrAlreadyReturned:    "0010",
	ErrUpstream:           "0011",
}
