package adapters

import (
	"context"

	"library_api/internal/feature/users/domain/entity"
	"library_api/internal/feature/users/transport/http/dto"
	"library_api/internal/feature/users/usecase"
	"library_api/internal/platform/replication"
)

// UserEventPublisher は利用者の変更をuser.upsertedイベントとして発行します。
type UserEventPublisher struct {
	pub replication.EventPublisher
}

var _ usecase.UserEvents = (*UserEventPublisher)(nil)

// NewUserEventPublisher はUserEventPublisherの新しいインスタンスを生成します。
func NewUserEventPublisher(pub replication.EventPublisher) *UserEventPublisher {
	return &UserEventPublisher{pub: pub}
}

// Upserted は利用者の状態をBackendへ送ります。
func (p *UserEventPublisher) Upserted(ctx context.Context, user entity.User) {
	p.pub.Publish(ctx, replication.Event{
		Kind:     replication.KindUserUpserted,
		EntityID: user.ID,
		Payload:  dto.NewUserPayload(user),
	})
}
