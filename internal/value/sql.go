package value

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"hibari/internal/ftypes"
	"hibari/internal/util"
)

// ToSQLString renders the value as a SQL literal for its type.
func ToSQLString(v Value) string {
	if v.Null {
		return "NULL"
	}
	switch v.Type.Kind {
	case ftypes.Int32, ftypes.Int64:
		return strconv.FormatInt(v.Int, 10)
	case ftypes.UInt32, ftypes.UInt64:
		return strconv.FormatUint(v.Uint, 10)
	case ftypes.Float32:
		return strconv.FormatFloat(v.Float, 'f', -1, 32)
	case ftypes.Float64:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ftypes.Boolean:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ftypes.Decimal:
		return FormatDecimal(v.Dec, v.Type.Scale)
	case ftypes.Date32:
		return fmt.Sprintf("DATE '%s'", FormatDate(v.Int))
	case ftypes.Time64:
		return fmt.Sprintf("TIME '%s'", FormatTime(v.Int))
	case ftypes.Timestamp:
		return fmt.Sprintf("TIMESTAMP '%s'", FormatTimestamp(v.Int))
	case ftypes.Interval:
		return FormatInterval(v.Months, v.Days, v.Nanos)
	default:
		return "NULL"
	}
}

// FormatDecimal renders an unscaled decimal with the fractional part
// zero-padded to scale digits.
func FormatDecimal(unscaled *big.Int, scale int32) string {
	if unscaled == nil {
		return "NULL"
	}
	abs := new(big.Int).Abs(unscaled)
	quo, rem := new(big.Int).QuoRem(abs, SafePowerOfTen(scale), new(big.Int))
	sign := ""
	if unscaled.Sign() < 0 {
		sign = "-"
	}
	if scale <= 0 {
		return sign + quo.String()
	}
	digits := int(scale)
	if digits > safePowerOfTenMax {
		digits = safePowerOfTenMax
	}
	return fmt.Sprintf("%s%s.%0*s", sign, quo.String(), digits, rem.String())
}

// FormatDate renders a day offset from the Unix epoch as YYYY-MM-DD.
func FormatDate(days int64) string {
	year, month, day := civilFromDays(days)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// FormatTime renders nanoseconds of day as HH:MM:SS.nnnnnnnnn.
func FormatTime(nanos int64) string {
	secs := nanos / nanosPerSecond
	frac := nanos % nanosPerSecond
	return fmt.Sprintf("%02d:%02d:%02d.%09d", secs/3600, secs/60%60, secs%60, frac)
}

// FormatTimestamp renders nanoseconds since the Unix epoch as
// YYYY-MM-DD HH:MM:SS.nnnnnnnnn.
func FormatTimestamp(nanos int64) string {
	days := nanos / nanosPerDay
	rest := nanos % nanosPerDay
	if rest < 0 {
		days--
		rest += nanosPerDay
	}
	return FormatDate(days) + " " + FormatTime(rest)
}

// FormatInterval renders an interval listing only its non-zero components,
// or INTERVAL '0' when every component is zero.
func FormatInterval(months, days int32, nanos int64) string {
	var parts []string
	add := func(n int64, unit string) {
		if n == 0 {
			return
		}
		if n == 1 || n == -1 {
			parts = append(parts, fmt.Sprintf("%d %s", n, unit))
			return
		}
		parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
	}
	add(int64(months)/12, "year")
	add(int64(months)%12, "month")
	add(int64(days), "day")
	secs := nanos / nanosPerSecond
	add(secs/3600, "hour")
	add(secs/60%60, "minute")
	add(secs%60, "second")
	if rem := nanos % nanosPerSecond; rem != 0 {
		add(rem, "nanosecond")
	}
	if len(parts) == 0 {
		return "INTERVAL '0'"
	}
	return fmt.Sprintf("INTERVAL '%s'", strings.Join(parts, " "))
}

// civilFromDays converts a day offset from 1970-01-01 to a calendar date.
func civilFromDays(days int64) (year, month, day int) {
	year = 1970
	for days < 0 {
		year--
		days += int64(daysInYear(year))
	}
	for days >= int64(daysInYear(year)) {
		days -= int64(daysInYear(year))
		year++
	}
	month = 1
	for days >= int64(util.DaysInMonth(year, month)) {
		days -= int64(util.DaysInMonth(year, month))
		month++
	}
	return year, month, int(days) + 1
}

func daysInYear(year int) int {
	if util.IsLeapYear(year) {
		return 366
	}
	return 365
}
