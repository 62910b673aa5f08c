// internal/domain/performance.go
package domain

import (
	"fmt"
	"time"
)

// SwimEvent is one of the standard distance/stroke combinations.
type SwimEvent string

const (
	Event50Free    SwimEvent = "50Free"
	Event100Free   SwimEvent = "100Free"
	Event200Free   SwimEvent = "200Free"
	Event400Free   SwimEvent = "400Free"
	Event800Free   SwimEvent = "800Free"
	Event1500Free  SwimEvent = "1500Free"
	Event50Back    SwimEvent = "50Back"
	Event100Back   SwimEvent = "100Back"
	Event200Back   SwimEvent = "200Back"
	Event50Breast  SwimEvent = "50Breast"
	Event100Breast SwimEvent = "100Breast"
	Event200Breast SwimEvent = "200Breast"
	Event50Fly     SwimEvent = "50Fly"
	Event100Fly    SwimEvent = "100Fly"
	Event200Fly    SwimEvent = "200Fly"
	Event200IM     SwimEvent = "200IM"
	Event400IM     SwimEvent = "400IM"
)

// SwimEvents lists every supported event in display order.
var SwimEvents = []SwimEvent{
	Event50Free, Event100Free, Event200Free, Event400Free, Event800Free, Event1500Free,
	Event50Back, Event100Back, Event200Back,
	Event50Breast, Event100Breast, Event200Breast,
	Event50Fly, Event100Fly, Event200Fly,
	Event200IM, Event400IM,
}

func (e SwimEvent) Validate() error {
	for _, known := range SwimEvents {
		if e == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported swim event %q", string(e))
}

// PerformanceRecord is an immutable timed result. IsPB and Improvement are
// derived against the swimmer's history for the same event when the record is added.
type PerformanceRecord struct {
	ID          string    `bson:"_id" json:"id"`
	SwimmerID   string    `bson:"swimmerId" json:"swimmerId"`
	Event       SwimEvent `bson:"event" json:"event"`
	Time        string    `bson:"time" json:"time"` // seconds, e.g. "28.50"
	Date        string    `bson:"date" json:"date"` // YYYY-MM-DD
	IsPB        bool      `bson:"isPB" json:"isPB"`
	Improvement *float64  `bson:"improvement,omitempty" json:"improvement,omitempty"` // seconds, negative = faster
	MeetName    string    `bson:"meetName,omitempty" json:"meetName,omitempty"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
