// Package check contains the validation checks for emailcheck: the address
// pattern (with its diagnostic rules), the top-level-domain lookup and the
// MX lookup. Each type implements the checker interface defined in
// validator.go. These types can be used directly, but the recommended
// approach is the Validator from the github.com/optimode/emailcheck package.
package check
