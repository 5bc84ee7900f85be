package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed edge: SubscriberID follows ChannelID.
type Subscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SubscriberID uuid.UUID `json:"subscriberId" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    uuid.UUID `json:"channelId" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	CreatedAt    time.Time `json:"createdAt"`
}
