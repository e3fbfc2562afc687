package services

import (
	"github.com/ghuser/auctionhouse/pkg/app"
	"github.com/ghuser/auctionhouse/pkg/cache"
	"github.com/ghuser/auctionhouse/services/auction/domain/repositories"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/messaging"
	"github.com/ghuser/auctionhouse/services/auction/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item       *ItemService
	Bid        *BidService
	Settlement *SettlementService
	Statistics *StatisticsService
}

// New wires all auction application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	var (
		txPublisher postgres.TxPublisherFactory
		owners      repositories.NotificationSink
	)
	if a.EventBus != nil {
		txPublisher = a.EventBus.NewTxPublisher
		owners = messaging.NewNotificationPublisher(a.EventBus)
	}

	var itemCache ItemCache
	if a.Redis != nil {
		itemCache = cache.NewItemCache(a.Redis)
	}

	conn := a.Db.DB()
	store := postgres.NewStore(a.Db, txPublisher)
	items := postgres.NewItemRepository(conn)

	return &Services{
		Item: NewItemService(items, postgres.NewBidRepository(conn), postgres.NewUserRepository(conn),
			store, itemCache, a.Clock, a.Logger),
		Bid:        NewBidService(store, owners, itemCache, a.Clock, a.Logger, a.Config.ItemURLBase),
		Settlement: NewSettlementService(items, store, itemCache, a.Logger, a.Config.SettlementConcurrency),
		Statistics: NewStatisticsService(postgres.NewStatisticsRepository(conn)),
	}
}
