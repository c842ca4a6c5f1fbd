package zipkin

import "errors"

// ErrInvalidEndpoint describes an Endpoint whose address cannot be used. No
// function in this package returns it: endpoint addresses are not validated
// when a Tracer is built.
var ErrInvalidEndpoint = errors.New("zipkin: invalid endpoint address")

// ErrTracerClosed describes a closed Tracer. No Tracer method returns it:
// spans finished after Tracer.Close are dropped without an error.
var ErrTracerClosed = errors.New("zipkin: tracer is closed")
