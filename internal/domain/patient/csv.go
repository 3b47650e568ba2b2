package patient

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/visioncare/records/pkg/csvdialect"
)

// CSVHeader is the fixed export column set, in order. Import discards the
// header row without checking it against this list, so a file with a
// malformed header silently shifts every column. Kept for compatibility with
// files produced by earlier versions of the application.
var CSVHeader = []string{
	"Date",
	"Name",
	"Mobile",
	"Right Eye Sphere",
	"Right Eye Cylinder",
	"Right Eye Axis",
	"Right Eye Add",
	"Left Eye Sphere",
	"Left Eye Cylinder",
	"Left Eye Axis",
	"Left Eye Add",
	"Frame Price",
	"Glass Price",
	"Remarks",
}

// ErrEmptyFile is returned when an import payload has no rows at all.
var ErrEmptyFile = errors.New("csv file is empty")

// EncodeCSV serializes records to the interchange format: one header row,
// one row per record, every field quoted. ID and CreatedAt are never
// exported; they are regenerated on import.
func EncodeCSV(records []Record) string {
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, csvdialect.JoinRow(CSVHeader))
	for _, r := range records {
		rows = append(rows, csvdialect.JoinRow([]string{
			r.Date,
			r.Name,
			r.Mobile,
			r.RightEye.Sphere,
			r.RightEye.Cylinder,
			r.RightEye.Axis,
			r.RightEye.Add,
			r.LeftEye.Sphere,
			r.LeftEye.Cylinder,
			r.LeftEye.Axis,
			r.LeftEye.Add,
			r.FramePrice,
			r.GlassPrice,
			r.Remarks,
		}))
	}
	return strings.Join(rows, "\n")
}

// fieldAt returns the i-th decoded field, or fallback when the row is short
// or the field is blank.
func fieldAt(fields []string, i int, fallback string) string {
	if i < len(fields) && fields[i] != "" {
		return fields[i]
	}
	return fallback
}

func importedID(stamp int64, rowIndex int) string {
	return fmt.Sprintf("imported-%d-%d", stamp, rowIndex)
}

// DecodeCSV parses an interchange blob into import candidates. The first row
// is treated as a header and discarded. Each non-blank row maps positionally
// onto the record fields with per-column defaults; a fresh id and CreatedAt
// are assigned per row regardless of the file contents. No uniqueness or
// mobile validation happens here -- the repository applies that before
// accepting candidates.
func DecodeCSV(text string, now time.Time) ([]Record, error) {
	rows := strings.Split(text, "\n")
	if len(rows) == 0 || strings.TrimSpace(text) == "" {
		return nil, ErrEmptyFile
	}

	today := now.Format("2006-01-02")
	createdAt := now.UTC().Format(time.RFC3339)
	stamp := now.UnixMilli()

	var out []Record
	for _, row := range rows[1:] {
		if strings.TrimSpace(row) == "" {
			continue
		}
		idx := len(out)
		raw := csvdialect.SplitRow(row)
		fields := make([]string, len(raw))
		for i, f := range raw {
			fields[i] = csvdialect.StripOuterQuotes(f)
		}

		out = append(out, Record{
			ID:   importedID(stamp, idx),
			Date: fieldAt(fields, 0, today),
			Name: fieldAt(fields, 1, ""),

			Mobile: fieldAt(fields, 2, ""),
			RightEye: EyeMeasurement{
				Sphere:   fieldAt(fields, 3, ""),
				Cylinder: fieldAt(fields, 4, ""),
				Axis:     fieldAt(fields, 5, ""),
				Add:      fieldAt(fields, 6, ""),
			},
			LeftEye: EyeMeasurement{
				Sphere:   fieldAt(fields, 7, ""),
				Cylinder: fieldAt(fields, 8, ""),
				Axis:     fieldAt(fields, 9, ""),
				Add:      fieldAt(fields, 10, ""),
			},
			FramePrice: fieldAt(fields, 11, "0"),
			GlassPrice: fieldAt(fields, 12, "0"),
			Remarks:    fieldAt(fields, 13, ""),
			CreatedAt:  createdAt,
		})
	}
	return out, nil
}
