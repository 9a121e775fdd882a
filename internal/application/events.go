package application

import (
	"context"
	"time"

	"github.com/robyajo/api-conatct/internal/domain/entity"
)

// UserEvent is the JSON payload published to the user-events queue on
// create/update/delete. Consumers are external; publishing is best-effort
// and never fails the request.
type UserEvent struct {
	Event  string    `json:"event"`
	UserID int64     `json:"user_id"`
	UUID   string    `json:"uuid"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

func (s *UserAdminService) publishEvent(ctx context.Context, event string, u *entity.User) {
	if s.Events == nil {
		return
	}
	ev := UserEvent{Event: event, UserID: u.ID, UUID: u.UUID, Email: u.Email, At: time.Now().UTC()}
	if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event", event).Warn("publish user event failed")
	}
}
