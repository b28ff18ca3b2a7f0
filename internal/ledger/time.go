package ledger

import (
	"fmt"
	"time"
)

// localZone is the fixed zone calendar days are computed in. Falls back
// to a constant -03:00 offset when the tz database is unavailable.
var localZone = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}()

// LocalZone is the zone user-facing dates are rendered and parsed in.
func LocalZone() *time.Location {
	return localZone
}

// parseWhen accepts the timestamp shapes the collaborator produces.
// Formats without an explicit offset are interpreted in the local zone.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, localZone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// dayBounds returns the [start, end) epoch range of one calendar day
// (YYYY-MM-DD) in the local zone.
func dayBounds(dateLocal string) (int64, int64, error) {
	day, err := time.ParseInLocation("2006-01-02", dateLocal, localZone)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid date %q", dateLocal)
	}
	return day.Unix(), day.AddDate(0, 0, 1).Unix(), nil
}
