package testutil

import (
	"context"
	"time"

	"github.com/autom8ter/changekit"
	"github.com/brianvoe/gofakeit/v6"

	_ "embed"

	_ "github.com/autom8ter/changekit/kv/badger"
)

func init() {
	var err error
	ProductType, err = changekit.NewEntityType([]byte(ProductYAML))
	if err != nil {
		panic(err)
	}
	CustomerType, err = changekit.NewEntityType([]byte(CustomerYAML))
	if err != nil {
		panic(err)
	}
	OrderType, err = changekit.NewEntityType([]byte(OrderYAML))
	if err != nil {
		panic(err)
	}
}

var (
	//go:embed testdata/product.yaml
	ProductYAML string
	//go:embed testdata/customer.yaml
	CustomerYAML string
	//go:embed testdata/order.yaml
	OrderYAML string

	ProductType  *changekit.EntityType
	CustomerType *changekit.EntityType
	OrderType    *changekit.EntityType

	AllTypes = [][]byte{[]byte(ProductYAML), []byte(CustomerYAML), []byte(OrderYAML)}
)

// ProductValues returns fake field values for a product record
func ProductValues() map[string]any {
	categories := []string{"tools", "hardware", "garden"}
	return map[string]any{
		"id":       gofakeit.UUID(),
		"name":     gofakeit.Name(),
		"sku":      gofakeit.UUID(),
		"category": categories[gofakeit.IntRange(0, len(categories)-1)],
		"price":    float64(gofakeit.IntRange(100, 99999)) / 100,
		"quantity": gofakeit.IntRange(1, 100),
		"inStock":  gofakeit.Bool(),
		"addedAt":  gofakeit.DateRange(time.Now().Truncate(7200*time.Hour), time.Now()),
		"supplier": map[string]any{
			"name": gofakeit.Company(),
			"contact": map[string]any{
				"email": gofakeit.Email(),
				"phone": gofakeit.Phone(),
			},
		},
	}
}

// CustomerValues returns fake field values for a customer record
func CustomerValues() map[string]any {
	tiers := []string{"bronze", "silver", "gold"}
	return map[string]any{
		"id":     gofakeit.UUID(),
		"name":   gofakeit.Name(),
		"tier":   tiers[gofakeit.IntRange(0, len(tiers)-1)],
		"joined": changekit.DateOf(gofakeit.Date()),
		"contact": map[string]any{
			"email": gofakeit.Email(),
			"phone": gofakeit.Phone(),
		},
	}
}

// OrderValues returns fake field values for an order record - order ids are
// caller owned
func OrderValues(id int64, customerID string) map[string]any {
	statuses := []string{"pending", "shipped", "delivered"}
	return map[string]any{
		"id":             id,
		"customerId":     customerID,
		"productId":      gofakeit.UUID(),
		"status":         statuses[gofakeit.IntRange(0, len(statuses)-1)],
		"quantity":       gofakeit.IntRange(1, 10),
		"total":          float64(gofakeit.IntRange(100, 99999)) / 100,
		"placedAt":       gofakeit.DateRange(time.Now().Truncate(7200*time.Hour), time.Now()),
		"deliverySlot":   changekit.TimeOfDayOf(gofakeit.Date()),
		"processingTime": time.Duration(gofakeit.IntRange(1, 72)) * time.Hour,
	}
}

func NewProductRecord() *changekit.Record {
	record := ProductType.NewRecord()
	if err := record.Patch(ProductValues()); err != nil {
		panic(err)
	}
	return record
}

func NewCustomerRecord() *changekit.Record {
	record := CustomerType.NewRecord()
	if err := record.Patch(CustomerValues()); err != nil {
		panic(err)
	}
	return record
}

func NewOrderRecord(id int64, customerID string) *changekit.Record {
	record := OrderType.NewRecord()
	if err := record.Patch(OrderValues(id, customerID)); err != nil {
		panic(err)
	}
	return record
}

// TestStore opens an in memory store configured with all test entity types
// and runs fn against it
func TestStore(fn func(ctx context.Context, store changekit.Store), opts ...changekit.StoreOpt) error {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	store, err := changekit.Open(ctx, "badger", map[string]any{
		"storage_path": "",
	}, opts...)
	if err != nil {
		return err
	}
	defer store.Close(ctx)
	if err := store.ConfigureCollections(ctx, AllTypes...); err != nil {
		return err
	}
	fn(ctx, store)
	return nil
}
