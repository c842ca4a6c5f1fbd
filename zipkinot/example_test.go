package zipkinot_test

import (
	"github.com/opentracing/opentracing-go"
	"github.com/rnburn/zipkin-opentracing-go/zipkinot"
)

func Example() {
	tracer, err := zipkinot.New(
		zipkinot.WithServiceName("checkout"),
		zipkinot.WithCollectorBaseURL("http://localhost:9411"),
		zipkinot.WithSampleRate(1.0),
	)
	if err != nil {
		panic(err)
	}
	defer tracer.Close()

	opentracing.SetGlobalTracer(tracer)

	span := opentracing.StartSpan("checkout.process_order")
	span.SetTag("order.id", "o-123")
	defer span.Finish()

	childSpan := opentracing.StartSpan(
		"checkout.charge_card",
		opentracing.ChildOf(span.Context()),
	)
	childSpan.Finish()
}
