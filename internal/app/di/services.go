package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"library_api/internal/app/router"
	bookadapters "library_api/internal/feature/books/adapters"
	bookhandler "library_api/internal/feature/books/transport/handler"
	bookusecase "library_api/internal/feature/books/usecase"
	useradapters "library_api/internal/feature/users/adapters"
	userhandler "library_api/internal/feature/users/transport/handler"
	userusecase "library_api/internal/feature/users/usecase"
	"library_api/internal/platform/cache"
	"library_api/internal/platform/metrics"
	"library_api/internal/platform/replication"
	"library_api/internal/platform/validation"
)

// Models are the gorm models migrated by both services.
func Models() []any {
	return []any{&useradapters.UserModel{}, &bookadapters.BookModel{}}
}

// NewBookStore creates the Backend book repository.
// If Redis is available, listings are cached; otherwise it passes through to the database.
func NewBookStore(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *cache.CachingBookRepository {
	return cache.NewCachingBookRepository(rdb, ttl, bookadapters.NewBookRepository(db), "books")
}

// NewFrontendHandlers wires the Frontend repositories, usecases and handlers.
func NewFrontendHandlers(db *gorm.DB, pub replication.EventPublisher, m *metrics.Metrics, log zerolog.Logger) router.FrontendHandlers {
	gate := validation.NewGate()

	// Repository
	bookRepo := bookadapters.NewBookRepository(db)
	borrowStore := bookadapters.NewBorrowStore(db)
	userRepo := useradapters.NewUserRepository(db)

	// Replication
	bookEvents := bookadapters.NewBookEventPublisher(pub)
	userEvents := useradapters.NewUserEventPublisher(pub)

	// Usecase
	catalogueUC := bookusecase.NewCatalogueUsecase(bookRepo, bookEvents)
	borrowUC := bookusecase.NewBorrowUsecase(borrowStore, bookEvents, nil, m)
	userUC := userusecase.NewUserUsecase(userRepo, userEvents)

	// Handler
	return router.FrontendHandlers{
		Books:        bookhandler.NewBookHandler(catalogueUC, log),
		Catalogue:    bookhandler.NewCatalogueHandler(catalogueUC, borrowUC, gate, log),
		Users:        userhandler.NewUserHandler(userUC, log),
		Registration: userhandler.NewRegistrationHandler(userUC, gate, log),
	}
}

// NewBackendHandlers wires the Backend read views and replication ingestion.
func NewBackendHandlers(db *gorm.DB, rdb *redis.Client, ttl time.Duration, m *metrics.Metrics, log zerolog.Logger) router.BackendHandlers {
	gate := validation.NewGate()

	// Repository
	bookStore := NewBookStore(db, rdb, ttl)
	userRepo := useradapters.NewUserRepository(db)

	// Usecase
	bookQueryUC := bookusecase.NewQueryUsecase(bookStore)
	bookSyncUC := bookusecase.NewSyncUsecase(bookStore, m)
	userQueryUC := userusecase.NewQueryUsecase(userRepo)
	userSyncUC := userusecase.NewSyncUsecase(userRepo, m)

	// Handler
	return router.BackendHandlers{
		Books:    bookhandler.NewBookHandler(bookQueryUC, log),
		BookSync: bookhandler.NewSyncHandler(bookSyncUC, gate, log),
		Users:    userhandler.NewUserHandler(userQueryUC, log),
		UserSync: userhandler.NewSyncHandler(userSyncUC, gate, log),
	}
}
