package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
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

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID == "" {
		return fmt.Errorf("%w: staff id must not be empty", ErrInvalidInput)
	}

	return nil
}
