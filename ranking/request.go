// SPDX-License-Identifier: MIT

package ranking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/spectrank/table"
)

var validate = validator.New()

// Request is one ranking invocation.
type Request struct {
	// Table is the score table; columns are competitors in output order.
	Table *table.Table `validate:"required"`

	// Direction is "higher" or "lower".
	Direction string `validate:"oneof=higher lower"`

	// BootstrapCount is B, the replicates per bootstrap draw.
	BootstrapCount int `validate:"gt=0"`

	// Seed initialises the invocation's generator.
	Seed int64 `validate:"gte=0"`

	// JobID is echoed into the Result when set.
	JobID string `validate:"omitempty,max=256"`
}

// Validate checks the request's parameters. A missing table is an input
// shape error; everything else is a parameter range error.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError(KindParameterRange, err)
	}
	kind := KindParameterRange
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Field() == "Table" {
			kind = KindInputShape
		}
		msgs = append(msgs, describe(fe))
	}

	return &Error{Kind: kind, Message: strings.Join(msgs, "; "), Err: err}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", fe.Field(), fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
}
