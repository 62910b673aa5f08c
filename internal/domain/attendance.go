// internal/domain/attendance.go
package domain

import "time"

// AttendanceStatus only models presence; absence is the lack of a record.
type AttendanceStatus string

const AttendancePresent AttendanceStatus = "Present"

// AttendanceRecord is created once per swimmer per calendar day.
type AttendanceRecord struct {
	ID        string           `bson:"_id" json:"id"`
	Date      string           `bson:"date" json:"date"` // YYYY-MM-DD
	SwimmerID string           `bson:"swimmerId" json:"swimmerId"`
	Status    AttendanceStatus `bson:"status" json:"status"`
	Timestamp time.Time        `bson:"timestamp" json:"timestamp"`
}
