package patient

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// EyeMeasurement holds one eye's prescription values in clinical notation.
// Values are free-form short strings; "" means unset.
type EyeMeasurement struct {
	Sphere   string `json:"sphere"`
	Cylinder string `json:"cylinder"`
	Axis     string `json:"axis"`
	Add      string `json:"add"`
}

// Record is one patient's optical prescription and billing entry. JSON tags
// match the persisted snapshot shape.
type Record struct {
	ID         string         `json:"id"`
	Date       string         `json:"date"` // YYYY-MM-DD
	Name       string         `json:"name"`
	Mobile     string         `json:"mobile"`
	RightEye   EyeMeasurement `json:"rightEye"`
	LeftEye    EyeMeasurement `json:"leftEye"`
	FramePrice string         `json:"framePrice"`
	GlassPrice string         `json:"glassPrice"`
	Remarks    string         `json:"remarks"`
	CreatedAt  string         `json:"createdAt"` // ISO-8601, immutable
}

// ErrInvalidMobile is returned when a mobile number is not exactly ten ASCII
// digits.
var ErrInvalidMobile = errors.New("mobile must be a 10-digit number")

// ErrDuplicateMobile is returned when a record's mobile number collides with
// one already in the repository.
var ErrDuplicateMobile = errors.New("a patient with this mobile number already exists")

// MissingFieldError reports a required field that was empty or absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IsValidMobile reports whether mobile is exactly ten ASCII digits.
func IsValidMobile(mobile string) bool {
	if len(mobile) != 10 {
		return false
	}
	for i := 0; i < len(mobile); i++ {
		if mobile[i] < '0' || mobile[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateForCreate checks a candidate record and returns a copy ready for
// insertion. Name, mobile and remarks must be non-empty and the mobile must
// be ten digits. Blank prices are coerced to "0". ID and CreatedAt are left
// unset; identity assignment belongs to the repository.
func ValidateForCreate(candidate Record) (Record, error) {
	if candidate.Name == "" {
		return Record{}, &MissingFieldError{Field: "name"}
	}
	if candidate.Mobile == "" {
		return Record{}, &MissingFieldError{Field: "mobile"}
	}
	if candidate.Remarks == "" {
		return Record{}, &MissingFieldError{Field: "remarks"}
	}
	if !IsValidMobile(candidate.Mobile) {
		return Record{}, ErrInvalidMobile
	}
	if candidate.FramePrice == "" {
		candidate.FramePrice = "0"
	}
	if candidate.GlassPrice == "" {
		candidate.GlassPrice = "0"
	}
	candidate.ID = ""
	candidate.CreatedAt = ""
	return candidate, nil
}

// Today returns the current calendar date in the record date format.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// SortByDate returns a copy of records ordered newest first by the Date
// field. Dates are YYYY-MM-DD so lexicographic comparison is chronological.
func SortByDate(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}
