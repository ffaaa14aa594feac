package processor

import "github.com/weiawesome/wes-image-enhancer/internal/domain"

// Result is the explicit outcome of one Enhance call. Enhanced is set only
// when Status is ENHANCED. Err carries the failure cause for FAILED results and
// any error from recording a NOT_FOUND outcome.
type Result struct {
	Status   domain.Status
	Source   domain.Location
	Enhanced domain.Location
	Err      error
}
