// internal/domain/block_template.go
package domain

import "time"

// BlockTemplate is a reusable, detached copy of a block used to seed new plans.
type BlockTemplate struct {
	TemplateID string    `bson:"_id" json:"templateId"`
	Name       string    `bson:"name" json:"name"`
	Category   BlockType `bson:"category" json:"category"`
	Block      Block     `bson:"block" json:"block"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

func (t BlockTemplate) Clone() BlockTemplate {
	out := t
	out.Block = t.Block.Clone()
	return out
}
