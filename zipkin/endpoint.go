package zipkin

// IPVersion distinguishes the address family of an Endpoint's address.
type IPVersion int

const (
	// IPUnknown means no address is set.
	IPUnknown IPVersion = iota
	// IPv4 marks a dotted-decimal IPv4 address.
	IPv4
	// IPv6 marks a text-form IPv6 address.
	IPv6
)

// IPAddress is a network address with an explicit version tag. An empty
// Address means "invalid/absent", avoiding the need for a separate presence
// flag.
type IPAddress struct {
	Version IPVersion
	Address string
	Port    uint16
}

// Valid reports whether the address has a non-empty canonical form.
func (a IPAddress) Valid() bool {
	return a.Address != "" && a.Version != IPUnknown
}

// Endpoint identifies where an annotation occurred.
type Endpoint struct {
	ServiceName string
	Addr        IPAddress
}
