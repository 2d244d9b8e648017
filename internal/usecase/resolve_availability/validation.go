package resolve_availability

import "fmt"

// validateRequest валидирует входные данные запроса.
// Разрешение требует непустой набор услуг — без длительности нет окна занятости.
func validateRequest(req *Request) error {
	if req.MerchantID == "" {
		return fmt.Errorf("%w: merchantID is required", ErrInvalidInput)
	}

	if req.LocationID == "" {
		return fmt.Errorf("%w: locationID is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	for _, id := range req.ServiceIDs {
		if id == "" {
			return fmt.Errorf("%w: empty service id", ErrInvalidInput)
		}
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.RequestedStaffID != nil && *req.RequestedStaffID == "" {
		return fmt.Errorf("%w: requested staff id must not be empty", ErrInvalidInput)
	}

	return nil
}
