// Package timex provides a time.Time wrapper with a stable serialized form
// Package timex 提供具有稳定序列化格式的 time.Time 包装类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the canonical textual form used in JSON and the database
const Layout = "2006-01-02 15:04:05"

// Time wraps time.Time so that gorm and JSON agree on one format
type Time time.Time

// Now returns the current time as a timex.Time
func Now() Time {
	return Time(time.Now())
}

func (t Time) String() string {
	return time.Time(t).Format(Layout)
}

// MarshalJSON implements json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		return nil
	}
	parsed, err := time.ParseInLocation(`"`+Layout+`"`, string(data), time.Local)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// Value implements driver.Valuer for gorm
func (t Time) Value() (driver.Value, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return nil, nil
	}
	return tt, nil
}

// Scan implements sql.Scanner for gorm
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case time.Time:
		*t = Time(value)
		return nil
	case []byte:
		parsed, err := time.ParseInLocation(Layout, string(value), time.Local)
		if err != nil {
			return err
		}
		*t = Time(parsed)
		return nil
	case string:
		parsed, err := time.ParseInLocation(Layout, value, time.Local)
		if err != nil {
			return err
		}
		*t = Time(parsed)
		return nil
	case nil:
		return nil
	}
	return fmt.Errorf("cannot convert %v to timex.Time", v)
}

// Unix returns the wrapped time as a Unix timestamp in seconds
func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

// UnixMilli returns the wrapped time as a Unix timestamp in milliseconds
func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

// UnixMicro returns the wrapped time as a Unix timestamp in microseconds
func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

// UnixNano returns the wrapped time as a Unix timestamp in nanoseconds
func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

// IsZero reports whether the wrapped time is the zero instant
func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before reports whether t is before u
func (t Time) Before(u Time) bool {
	return time.Time(t).Before(time.Time(u))
}
