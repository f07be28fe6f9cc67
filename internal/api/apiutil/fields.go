package apiutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/codr1/Courtbook/internal/booking"
)

func ParseNonNegativeInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be 0 or greater", field)
	}
	return value, nil
}

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

func ParseDateField(raw string, field string) (booking.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return booking.Date{}, fmt.Errorf("%s is required", field)
	}
	d, err := booking.ParseDate(raw)
	if err != nil {
		return booking.Date{}, fmt.Errorf("%s must be a YYYY-MM-DD date", field)
	}
	return d, nil
}

// ParseOptionalDateField returns the zero Date for an empty value.
func ParseOptionalDateField(raw string, field string) (booking.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return booking.Date{}, nil
	}
	return ParseDateField(raw, field)
}

// ParseWindowFields parses HH:MM start and end values.
func ParseWindowFields(start, end string) (booking.Window, error) {
	s, err := booking.ParseClock(strings.TrimSpace(start))
	if err != nil {
		return booking.Window{}, fmt.Errorf("start must be HH:MM")
	}
	e, err := booking.ParseClock(strings.TrimSpace(end))
	if err != nil {
		return booking.Window{}, fmt.Errorf("end must be HH:MM")
	}
	return booking.Window{Start: s, End: e}, nil
}

func ParseBoolField(raw string, field string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", field)
	}
	return value, nil
}
