package request_booking

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.MerchantID == "" {
		return fmt.Errorf("%w: merchantID is required", ErrInvalidInput)
	}

	if req.CustomerID == "" {
		return fmt.Errorf("%w: customerID is required", ErrInvalidInput)
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

	// Override без причины не принимаем: причина уходит в аудит строки
	if req.IsOverride && (req.OverrideReason == nil || *req.OverrideReason == "") {
		return fmt.Errorf("%w: override requires a reason", ErrInvalidInput)
	}

	if !req.IsOverride && req.OverrideReason != nil {
		return fmt.Errorf("%w: override reason without override flag", ErrInvalidInput)
	}

	return nil
}
