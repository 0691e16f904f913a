package localdate

import (
	"fmt"
	"log"
	"time"
)

const dateLayout = "2006-01-02"

// Offsets beyond the IANA range mean the zone database handed us garbage;
// in that case we stamp plain UTC instead of emitting an invalid offset.
const maxOffsetSeconds = 14 * 60 * 60

// Resolve returns today's calendar date (YYYY-MM-DD) and the current
// instant as an ISO-8601 timestamp with an explicit numeric offset, both
// computed in the given IANA timezone. An empty or unrecognized timezone
// falls back to UTC; Resolve never fails the caller.
func Resolve(timezone string) (date string, timestamp string) {
	return resolveAt(timezone, time.Now())
}

func resolveAt(timezone string, now time.Time) (string, string) {
	loc := time.UTC
	if timezone != "" {
		parsed, err := time.LoadLocation(timezone)
		if err != nil {
			log.Printf("[LocalDate] Unrecognized timezone %q, falling back to UTC", timezone)
		} else {
			loc = parsed
		}
	}

	local := now.In(loc)
	date := local.Format(dateLayout)

	_, offsetSec := local.Zone()
	if offsetSec > maxOffsetSeconds || offsetSec < -maxOffsetSeconds {
		log.Printf("[LocalDate] Computed offset %ds out of range, stamping UTC", offsetSec)
		utc := now.UTC()
		return utc.Format(dateLayout), utc.Format("2006-01-02T15:04:05") + "+00:00"
	}

	sign := "+"
	if offsetSec < 0 {
		sign = "-"
		offsetSec = -offsetSec
	}
	offset := fmt.Sprintf("%s%02d:%02d", sign, offsetSec/3600, (offsetSec%3600)/60)

	return date, local.Format("2006-01-02T15:04:05") + offset
}

// NeedsRegeneration reports whether a fresh record must be generated for
// today. True when no previous local date is recorded or the two dates
// differ. Comparison is exact string equality on the YYYY-MM-DD values:
// parsing a bare date string as UTC midnight and comparing against a
// zone-shifted "now" gives wrong answers whenever the user's offset and
// UTC disagree on the calendar day.
func NeedsRegeneration(lastLocalDate, todayLocalDate string) bool {
	if lastLocalDate == "" {
		return true
	}
	return lastLocalDate != todayLocalDate
}
