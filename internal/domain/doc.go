// Package domain contains the core model for fitdemo: the demo session, its bounded
// result log, request/outcome records and the declarative step descriptors.
//
// The domain is transport-agnostic: it does not depend on YAML parsing, net/http, or the
// filesystem. Infra adapters map into/from these types.
package domain
