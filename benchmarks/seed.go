package benchmarks

import (
	"context"

	"github.com/autom8ter/changekit"
	"github.com/autom8ter/changekit/testutil"
)

func seedProducts(ctx context.Context, store changekit.Store, count int) error {
	set := &changekit.ChangeSet{}
	for i := 0; i < count; i++ {
		set.Modifications = append(set.Modifications, &changekit.Modification{
			Collection: "product",
			Action:     changekit.CreateAction,
			Values:     changekit.NewValues(testutil.ProductValues()),
		})
	}
	return store.Apply(ctx, set)
}

func seedOrders(ctx context.Context, store changekit.Store, customers, ordersEach int) error {
	set := &changekit.ChangeSet{}
	var orderID int64
	for i := 0; i < customers; i++ {
		customer := testutil.CustomerValues()
		set.Modifications = append(set.Modifications, &changekit.Modification{
			Collection: "customer",
			Action:     changekit.CreateAction,
			Values:     changekit.NewValues(customer),
		})
		for j := 0; j < ordersEach; j++ {
			orderID++
			set.Modifications = append(set.Modifications, &changekit.Modification{
				Collection: "order",
				Action:     changekit.CreateAction,
				Values:     changekit.NewValues(testutil.OrderValues(orderID, customer["id"].(string))),
			})
		}
	}
	return store.Apply(ctx, set)
}
