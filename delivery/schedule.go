package delivery

import "time"

// NextSendTime returns the confirmation send instant: sendHour o'clock on
// the calendar day after submitted, in the applicant's timezone. An empty
// or unknown zone falls back to UTC. The result is an absolute instant;
// callers store it as such.
func NextSendTime(submitted time.Time, timezone string, sendHour int) time.Time {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	local := submitted.In(loc)
	next := local.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), sendHour, 0, 0, 0, loc)
}
