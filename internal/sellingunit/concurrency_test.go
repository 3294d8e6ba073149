package sellingunit

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mmynk/batchpricer/internal/ids"
	"github.com/mmynk/batchpricer/internal/models"
	"github.com/mmynk/batchpricer/internal/storage/sqlite"
)

func TestConcurrentAddsAreAllPersisted(t *testing.T) {
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	recipe := &models.Recipe{Name: "Toffee", TotalCost: 20, BatchYield: 4, BatchUnit: "lb"}
	if err := store.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}

	engine := NewEngine(store, ids.UUID{})

	const adds = 20
	var wg sync.WaitGroup
	added := make(chan string, adds)
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unit, err := engine.AddSellingUnit(ctx, recipe.ID, models.SellingUnit{
				Name:      fmt.Sprintf("Bag %d", i),
				Quantity:  0.1,
				Unit:      "lb",
				IsDefault: i%5 == 0,
			})
			if err != nil {
				errs <- err
				return
			}
			if unit == nil {
				errs <- fmt.Errorf("add %d: recipe reported missing", i)
				return
			}
			added <- unit.ID
		}(i)
	}
	wg.Wait()
	close(added)
	close(errs)

	for err := range errs {
		t.Fatalf("AddSellingUnit failed: %v", err)
	}

	got, err := store.GetRecipe(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}
	if len(got.SellingUnits) != adds {
		t.Fatalf("expected %d persisted units, got %d", adds, len(got.SellingUnits))
	}
	for id := range added {
		if got.FindSellingUnit(id) < 0 {
			t.Errorf("unit %s was reported added but not persisted", id)
		}
	}
	if n := countDefaults(got.SellingUnits); n != 1 {
		t.Errorf("expected exactly one default, got %d", n)
	}
}
