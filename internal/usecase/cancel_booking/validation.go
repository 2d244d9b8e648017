package cancel_booking

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.MerchantID == "" {
		return fmt.Errorf("%w: merchantID is required", ErrInvalidInput)
	}

	if req.BookingID == "" {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	if req.Reason == "" {
		return fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}

	return nil
}
