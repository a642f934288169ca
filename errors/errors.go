package errors

import "fmt"

var (
	ErrMemberNotFound       = fmt.Errorf("member not found")
	ErrEdgeNotFound         = fmt.Errorf("connection not found")
	ErrSelfConnection       = fmt.Errorf("a member cannot connect to itself")
	ErrTransportUnavailable = fmt.Errorf("push transport unavailable")
	ErrDeliveryFailed       = fmt.Errorf("delivery failed")
	ErrInvalidStatus        = fmt.Errorf("invalid status")
	ErrInvalidTTL           = fmt.Errorf("invalid ttl")
	ErrInvalidMemberID      = fmt.Errorf("invalid member id")
	ErrInvalidCommand       = fmt.Errorf("invalid command")
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrSubscriberBehind     = fmt.Errorf("subscriber buffer full")
	ErrInvalidRequest       = fmt.Errorf("invalid request")
)
