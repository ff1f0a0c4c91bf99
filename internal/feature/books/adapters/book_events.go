package adapters

import (
	"context"

	"library_api/internal/feature/books/domain/entity"
	"library_api/internal/feature/books/transport/http/dto"
	"library_api/internal/feature/books/usecase"
	"library_api/internal/platform/replication"
)

// BookEventPublisher は本の変更をレプリケーションイベントに変換してEventPublisherへ渡します。
type BookEventPublisher struct {
	pub replication.EventPublisher
}

var _ usecase.BookEvents = (*BookEventPublisher)(nil)

// NewBookEventPublisher はBookEventPublisherの新しいインスタンスを生成します。
func NewBookEventPublisher(pub replication.EventPublisher) *BookEventPublisher {
	return &BookEventPublisher{pub: pub}
}

// Upserted は本の完全な状態をbook.upsertedイベントとして発行します。
func (p *BookEventPublisher) Upserted(ctx context.Context, book entity.Book) {
	p.pub.Publish(ctx, replication.Event{
		Kind:     replication.KindBookUpserted,
		EntityID: book.ID,
		Payload:  dto.FromBook(book),
	})
}

// Deleted はbook.deletedイベントを発行します。
func (p *BookEventPublisher) Deleted(ctx context.Context, id string) {
	p.pub.Publish(ctx, replication.Event{
		Kind:     replication.KindBookDeleted,
		EntityID: id,
		Payload:  replication.DeletePayload{ID: id},
	})
}
