// utils/validator.go
package utils

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance for service-level input structs.
// Validation failures are rejected before any transaction is opened.
var Validate = validator.New()
