// FILE: internal/pkg/serverutils/validator.go
package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and folds the
// result into the workflow error taxonomy so the error handler maps it to a
// 400 without special-casing.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if ok := errors.As(err, &verrs); !ok {
		return &workflow.ValidationError{Reason: err.Error()}
	}

	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		reasons = append(reasons, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return &workflow.ValidationError{Reason: strings.Join(reasons, "; ")}
}
