package events

const (
	StoreCreatedName   = "store.created"
	StoreDeletedName   = "store.deleted"
	ProductCreatedName = "product.created"
	ProductDeletedName = "product.deleted"
)

// All lists every marketplace event name.
var All = []string{StoreCreatedName, StoreDeletedName, ProductCreatedName, ProductDeletedName}

type StoreCreated struct {
	StoreID uint64
	UserID  uint64
}

func (StoreCreated) Name() string { return StoreCreatedName }

// StoreDeleted carries the productIds removed along with the store.
type StoreDeleted struct {
	StoreID    uint64
	ActorID    uint64
	ProductIDs []string
}

func (StoreDeleted) Name() string { return StoreDeletedName }

type ProductCreated struct {
	ID        uint64
	ProductID string
	StoreID   uint64
	UserID    uint64
}

func (ProductCreated) Name() string { return ProductCreatedName }

type ProductDeleted struct {
	ID        uint64
	ProductID string
	StoreID   uint64
	ActorID   uint64
}

func (ProductDeleted) Name() string { return ProductDeletedName }
