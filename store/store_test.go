package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"cafe-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *CafeStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cafes.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Cafe{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewCafeStore(db)
}

func sampleCafe(name, location string) models.Cafe {
	price := "£2.50"
	return models.Cafe{
		Name:        name,
		MapURL:      "https://maps.example/" + name,
		ImgURL:      "https://img.example/" + name + ".jpg",
		Location:    location,
		Seats:       "20-30",
		HasToilet:   true,
		HasWifi:     true,
		HasSockets:  false,
		CoffeePrice: &price,
	}
}

func mustCreate(t *testing.T, s *CafeStore, c models.Cafe) models.Cafe {
	t.Helper()
	if err := s.Create(context.Background(), &c); err != nil {
		t.Fatalf("create %s: %v", c.Name, err)
	}
	return c
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	s := newTestStore(t)
	seen := map[uint]bool{}
	for i := 0; i < 5; i++ {
		c := mustCreate(t, s, sampleCafe(fmt.Sprintf("Cafe %d", i), "London"))
		if c.ID == 0 {
			t.Fatal("expected ID to be assigned")
		}
		if seen[c.ID] {
			t.Fatalf("duplicate ID %d", c.ID)
		}
		seen[c.ID] = true

		got, err := s.FindByID(context.Background(), c.ID)
		if err != nil {
			t.Fatalf("FindByID(%d): %v", c.ID, err)
		}
		if got.Name != c.Name {
			t.Errorf("FindByID(%d).Name = %q, want %q", c.ID, got.Name, c.Name)
		}
	}
}

func TestCreateDuplicateName(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, sampleCafe("Joe's", "London"))

	dup := sampleCafe("Joe's", "Paris")
	err := s.Create(context.Background(), &dup)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}

	all, _ := s.ListAll(context.Background())
	if len(all) != 1 {
		t.Errorf("len(all) = %d, want 1", len(all))
	}
}

func TestListAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len = %d, want 0", len(all))
	}

	for i := 0; i < 3; i++ {
		mustCreate(t, s, sampleCafe(fmt.Sprintf("c%d", i), "Hackney"))
	}
	all, _ = s.ListAll(ctx)
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
}

func TestFindByLocationExactMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreate(t, s, sampleCafe("a", "London"))
	mustCreate(t, s, sampleCafe("b", "london"))
	mustCreate(t, s, sampleCafe("c", "London Bridge"))
	mustCreate(t, s, sampleCafe("d", "London"))

	got, err := s.FindByLocation(ctx, "London")
	if err != nil {
		t.Fatalf("FindByLocation: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.Location != "London" {
			t.Errorf("unexpected location %q", c.Location)
		}
	}

	none, err := s.FindByLocation(ctx, "Lond")
	if err != nil {
		t.Fatalf("FindByLocation: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("partial match returned %d rows", len(none))
	}
}

func TestFindByIDNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.FindByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRandomEmptyTable(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Random(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRandomReturnsExistingRecord(t *testing.T) {
	s := newTestStore(t)
	names := map[string]bool{}
	for i := 0; i < 4; i++ {
		c := mustCreate(t, s, sampleCafe(fmt.Sprintf("r%d", i), "Peckham"))
		names[c.Name] = true
	}
	for i := 0; i < 20; i++ {
		c, err := s.Random(context.Background())
		if err != nil {
			t.Fatalf("Random: %v", err)
		}
		if !names[c.Name] {
			t.Fatalf("Random returned unknown cafe %q", c.Name)
		}
	}
}

func TestUpdatePriceOnlyTouchesPrice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	before := mustCreate(t, s, sampleCafe("Priced", "Soho"))

	price := "£3.10"
	if err := s.UpdatePrice(ctx, before.ID, &price); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	after, err := s.FindByID(ctx, before.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if after.CoffeePrice == nil || *after.CoffeePrice != "£3.10" {
		t.Fatalf("CoffeePrice = %v, want £3.10", after.CoffeePrice)
	}

	after.CoffeePrice = before.CoffeePrice
	if *after != before {
		t.Errorf("other fields changed:\nbefore %+v\nafter  %+v", before, *after)
	}
}

func TestUpdatePriceClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, sampleCafe("Clear", "Soho"))

	if err := s.UpdatePrice(ctx, c.ID, nil); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	got, _ := s.FindByID(ctx, c.ID)
	if got.CoffeePrice != nil {
		t.Errorf("CoffeePrice = %q, want nil", *got.CoffeePrice)
	}
}

func TestUpdatePriceNotFound(t *testing.T) {
	s := newTestStore(t)
	price := "£1"
	if err := s.UpdatePrice(context.Background(), 99, &price); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, sampleCafe("Gone", "Camden"))

	if err := s.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByID(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete: %v", err)
	}
	if err := s.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestCreateBatchSkipsDuplicates(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, sampleCafe("Existing", "Brixton"))

	res, err := s.CreateBatch(context.Background(), []models.Cafe{
		sampleCafe("New One", "Brixton"),
		sampleCafe("Existing", "Brixton"),
		sampleCafe("New Two", "Brixton"),
		sampleCafe("New One", "Brixton"),
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(res.Created) != 2 {
		t.Errorf("created = %d, want 2", len(res.Created))
	}
	if len(res.Failed) != 2 {
		t.Fatalf("failed = %d, want 2", len(res.Failed))
	}
	if res.Failed[0].Index != 1 || res.Failed[1].Index != 3 {
		t.Errorf("failed indexes = %d,%d want 1,3", res.Failed[0].Index, res.Failed[1].Index)
	}
	n, _ := s.Count(context.Background())
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}
