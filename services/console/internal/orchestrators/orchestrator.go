// Package orchestrators holds the per-view controllers of the operator
// console. Each orchestrator owns one request lifecycle and the UI-facing
// state derived from it: Idle until the operator acts, Loading (or Uploading)
// while exactly one request is in flight, then Success or Error. State is
// private to its orchestrator; nothing is shared across views.
//
// Every orchestrator carries a monotonically increasing generation counter.
// A transition is applied only if the completing request still carries the
// current generation, so a response that was superseded by a newer submission
// or by a reset can never overwrite later state. Closing an orchestrator
// (view unmount) cancels in-flight work and suppresses all further updates.
package orchestrators

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/pkg/views"
)

// emit delivers a state snapshot without ever blocking a transition. When the
// consumer lags, the oldest buffered snapshot is dropped in favor of the
// newest; terminal states therefore always arrive.
func emit[T any](ch chan T, s T) {
	for {
		select {
		case ch <- s:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// validateReview enforces required-field presence before dispatch. Semantic
// plausibility (negative days, extreme counts) is the backend's business and
// is deliberately not checked here.
func validateReview(v *validator.Validate, review views.ReviewInput) error {
	err := v.Struct(&review)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Text":
			return &pkg.ValidationError{Field: "text", Message: "review text is required"}
		case "Rating":
			return &pkg.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
		default:
			return &pkg.ValidationError{Field: verrs[0].Field(), Message: "invalid value"}
		}
	}
	return err
}
