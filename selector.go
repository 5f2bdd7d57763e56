package swizzle

// Selector names an operation independently of any implementation.
type Selector string

func (s Selector) String() string {
	return string(s)
}

// Protocol is a named set of selectors that conforming classes implement.
type Protocol struct {
	name      string
	selectors []Selector
}

// NewProtocol returns a protocol requiring the given selectors.
func NewProtocol(name string, selectors ...Selector) *Protocol {
	return &Protocol{
		name:      name,
		selectors: append([]Selector(nil), selectors...),
	}
}

// Name returns the protocol's name.
func (p *Protocol) Name() string {
	return p.name
}

// Selectors returns the selectors the protocol requires.
func (p *Protocol) Selectors() []Selector {
	return append([]Selector(nil), p.selectors...)
}

func (p *Protocol) String() string {
	return p.name
}
