// Package errors provides coded, structured errors for pagekit.
//
// Every recoverable failure in the page layer carries a stable code so that
// logs, metrics and the CLI can refer to it without string matching:
//
//   - R001 route not found (URL builder)
//   - R002 invalid route file (HCL loader)
//   - P001 page descriptor could not be parsed
//   - P002 page module not found in the registry
//   - P003 page module failed to load
//   - P004 page failed to mount
//   - C001..C003 configuration problems
//
// # Usage
//
//	err := errors.New(errors.CodeModuleNotFound).
//	    WithDetail("no ./pages/Home.* entry").
//	    Wrap(cause)
//
//	if errors.Is(err, errors.New(errors.CodeModuleNotFound)) { ... }
//
//	fmt.Fprint(os.Stderr, err.Format())
package errors
