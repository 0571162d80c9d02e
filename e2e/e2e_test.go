package e2e_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/autom8ter/changekit"
	"github.com/autom8ter/changekit/kv"
	"github.com/autom8ter/changekit/testutil"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func Test(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		assert.Nil(t, testutil.TestStore(func(ctx context.Context, store changekit.Store) {
			egp, ctx := errgroup.WithContext(ctx)
			for i := 0; i < 50; i++ {
				err := store.Apply(ctx, &changekit.ChangeSet{
					Modifications: []*changekit.Modification{
						{
							Collection: "product",
							Action:     changekit.CreateAction,
							Values:     changekit.NewValues(testutil.ProductValues()),
						},
					},
				})
				assert.Nil(t, err)
				egp.Go(func() error {
					err := store.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx changekit.Tx) error {
						results, err := tx.Query(ctx, "product", changekit.NewQueryBuilder().
							Select("*").
							Where(changekit.Where{
								Field: "supplier.contact.email",
								Op:    changekit.WhereOpEq,
								Value: gofakeit.Email(),
							}).Query())
						if err != nil {
							return err
						}
						fmt.Println(results.Stats)
						return nil
					})
					if err != nil {
						return err
					}
					return nil
				})
				time.Sleep(100 * time.Millisecond)
			}
			for _, collection := range store.Collections(ctx) {
				collection := collection
				egp.Go(func() error {
					schema := store.GetSchema(ctx, collection)
					bytes, err := schema.Bytes()
					assert.Nil(t, err)
					assert.Nil(t, store.ConfigureCollection(ctx, bytes))
					return nil
				})
			}
			assert.Nil(t, egp.Wait())
		}))
	})
}
