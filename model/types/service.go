package types

// Service is an action service interface. Services are registered under a
// name and expose one or more executable methods.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
