package utils

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// TimestampLayout is the layout used for record timestamps in API output.
const TimestampLayout = "2006-01-02 15:04:05"

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// ToIST converts a time.Time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// FormatTimestamp renders t in IST using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.In(IST).Format(TimestampLayout)
}

// MarketOpenTime returns the MCX market opening time (9:00 AM IST) for a given date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, IST)
}

// MarketCloseTime returns the MCX market closing time (11:30 PM IST) for
// a given date. The evening session runs later than equities.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 30, 0, 0, IST)
}

// IsMarketOpen checks if the commodity market is currently open.
func IsMarketOpen() bool {
	return IsMarketOpenAt(NowIST())
}

// IsMarketOpenAt checks if the commodity market would be open at the given time.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(IST)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}

	return !t.Before(MarketOpenTime(t)) && t.Before(MarketCloseTime(t))
}
