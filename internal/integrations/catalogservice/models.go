package catalogservice

// Service услуга из каталога мерчанта
type Service struct {
	ID              string   `json:"id"`
	MerchantID      string   `json:"merchantId"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`

	// Паддинг услуги. nil = услуга не задает собственный паддинг,
	// применяется merchant-level буфер.
	PaddingBeforeMinutes *int `json:"paddingBeforeMinutes,omitempty"`
	PaddingAfterMinutes  *int `json:"paddingAfterMinutes,omitempty"`

	Active bool `json:"active"`
}

// Location точка обслуживания мерчанта
type Location struct {
	ID           string    `json:"id"`
	MerchantID   string    `json:"merchantId"`
	Name         string    `json:"name"`
	Timezone     string    `json:"timezone"`
	WorkingHours WeekHours `json:"workingHours"`
}

// WeekHours расписание работы локации по дням недели
type WeekHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule часы работы локации в один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`  // "HH:MM"
	CloseTime *string `json:"closeTime,omitempty"` // "HH:MM"
}
