package locate

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelector indicates a request that names nothing to look for.
	ErrNoSelector = errors.New("no trait, struct or function provided")

	// ErrConflictingSelectors indicates a request that names more than one kind of declaration.
	ErrConflictingSelectors = errors.New("conflicting selectors")
)

// Kind is the kind of declaration a Request asks for.
type Kind int

const (
	KindTypeDefinition Kind = iota
	KindFunction
	KindInterfaceImpl
)

func (k Kind) String() string {
	switch k {
	case KindTypeDefinition:
		return "type"
	case KindFunction:
		return "function"
	case KindInterfaceImpl:
		return "impl"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps the names used on the wire ("type", "function", "impl") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "type", "struct":
		return KindTypeDefinition, nil
	case "function", "fn":
		return KindFunction, nil
	case "impl", "trait":
		return KindInterfaceImpl, nil
	default:
		return 0, fmt.Errorf("unknown declaration kind %q (valid: type, function, impl)", s)
	}
}

// Request describes one declaration to locate.
type Request struct {
	Kind Kind
	Name string
	// ImplementingType narrows a KindInterfaceImpl request to the block
	// implemented for this type. Empty means no filter.
	ImplementingType string
}

// TypeDefinition requests the data-type definition called name.
func TypeDefinition(name string) Request {
	return Request{Kind: KindTypeDefinition, Name: name}
}

// Function requests the function definition called name.
func Function(name string) Request {
	return Request{Kind: KindFunction, Name: name}
}

// InterfaceImpl requests the implementation block of iface, optionally for forType.
func InterfaceImpl(iface, forType string) Request {
	return Request{Kind: KindInterfaceImpl, Name: iface, ImplementingType: forType}
}

// Validate checks that the request names something.
func (r Request) Validate() error {
	if r.Name == "" {
		return ErrNoSelector
	}
	if r.ImplementingType != "" && r.Kind != KindInterfaceImpl {
		return fmt.Errorf("%w: implementing type %q only applies to impl requests", ErrConflictingSelectors, r.ImplementingType)
	}
	return nil
}

// Describe returns the status line shown while the request is being expanded.
func (r Request) Describe() string {
	switch r.Kind {
	case KindInterfaceImpl:
		if r.ImplementingType != "" {
			return fmt.Sprintf("Expanding trait: %s for %s", r.Name, r.ImplementingType)
		}
		return fmt.Sprintf("Expanding trait: %s", r.Name)
	case KindFunction:
		return fmt.Sprintf("Expanding function: %s", r.Name)
	default:
		return fmt.Sprintf("Expanding struct: %s", r.Name)
	}
}

// FromSelectors builds a request from the three command-line selectors.
//
// traitName with structName asks for the impl of the trait for that struct,
// structName alone asks for the type definition, funcName alone for the
// function. Combining funcName with either of the others is an error.
func FromSelectors(traitName, structName, funcName string) (Request, error) {
	if funcName != "" && (traitName != "" || structName != "") {
		return Request{}, fmt.Errorf("%w: --function cannot be combined with --trait-impl or --structure", ErrConflictingSelectors)
	}
	switch {
	case traitName != "":
		return InterfaceImpl(traitName, structName), nil
	case structName != "":
		return TypeDefinition(structName), nil
	case funcName != "":
		return Function(funcName), nil
	default:
		return Request{}, ErrNoSelector
	}
}
