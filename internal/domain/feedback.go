// internal/domain/feedback.go
package domain

import "time"

// Feedback is an athlete's post-session report. Append only.
type Feedback struct {
	ID        string    `bson:"_id" json:"id"`
	SwimmerID string    `bson:"swimmerId" json:"swimmerId"`
	PlanID    string    `bson:"planId" json:"planId"`
	Date      string    `bson:"date" json:"date"`         // YYYY-MM-DD
	RPE       int       `bson:"rpe" json:"rpe"`           // 1-10
	Soreness  int       `bson:"soreness" json:"soreness"` // 1-10
	Comments  string    `bson:"comments,omitempty" json:"comments"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
