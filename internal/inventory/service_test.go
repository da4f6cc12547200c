package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	types []UnitType
	units []Unit
}

func (f *fakeRepo) CreateConfiguration(_ context.Context, types []UnitType, units []Unit) error {
	f.types = append(f.types, types...)
	f.units = append(f.units, units...)
	return nil
}

func (f *fakeRepo) GetUnitTypesByEvent(_ context.Context, eventID uuid.UUID) ([]UnitType, error) {
	var out []UnitType
	for _, t := range f.types {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetUnitsByEvent(_ context.Context, eventID uuid.UUID) ([]Unit, error) {
	var out []Unit
	for _, u := range f.units {
		if u.EventID == eventID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetUnitsByLabels(_ context.Context, eventID uuid.UUID, unitIDs []string) ([]Unit, error) {
	wanted := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		wanted[id] = true
	}
	var out []Unit
	for _, u := range f.units {
		if u.EventID == eventID && wanted[u.UnitID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateUnitTypePrice(_ context.Context, eventID uuid.UUID, name string, price float64) error {
	for i := range f.types {
		if f.types[i].EventID == eventID && f.types[i].Name == name {
			f.types[i].Price = price
		}
	}
	return nil
}

func seededService(t *testing.T) (Service, *fakeRepo, uuid.UUID) {
	t.Helper()
	repo := &fakeRepo{}
	svc := NewService(repo)
	eventID := uuid.New()

	err := svc.DefineConfiguration(context.Background(), eventID,
		[]UnitTypeSpec{
			{Name: "balcony", Price: 45},
			{Name: "floor", Price: 80},
		},
		[]UnitSpec{
			{UnitID: "A-1", UnitType: "floor"},
			{UnitID: "A-2", UnitType: "floor"},
			{UnitID: "B-1", UnitType: "balcony"},
		},
	)
	if err != nil {
		t.Fatalf("DefineConfiguration: %v", err)
	}
	return svc, repo, eventID
}

func TestDefineConfiguration(t *testing.T) {
	t.Run("rejects duplicate unit labels", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		err := svc.DefineConfiguration(context.Background(), uuid.New(),
			[]UnitTypeSpec{{Name: "ga", Price: 20}},
			[]UnitSpec{{UnitID: "GA-1", UnitType: "ga"}, {UnitID: "GA-1", UnitType: "ga"}},
		)
		if err == nil || !strings.Contains(err.Error(), "duplicate unit") {
			t.Fatalf("expected duplicate unit error, got %v", err)
		}
	})

	t.Run("rejects unknown unit type reference", func(t *testing.T) {
		svc := NewService(&fakeRepo{})
		err := svc.DefineConfiguration(context.Background(), uuid.New(),
			[]UnitTypeSpec{{Name: "ga", Price: 20}},
			[]UnitSpec{{UnitID: "X-1", UnitType: "vip"}},
		)
		if err == nil || !strings.Contains(err.Error(), "unknown unit type") {
			t.Fatalf("expected unknown unit type error, got %v", err)
		}
	})
}

func TestResolveSelection(t *testing.T) {
	t.Run("resolves prices in request order", func(t *testing.T) {
		svc, _, eventID := seededService(t)

		selection, err := svc.ResolveSelection(context.Background(), eventID, []string{"B-1", "A-2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(selection) != 2 {
			t.Fatalf("expected 2 selections, got %d", len(selection))
		}
		if selection[0].UnitID != "B-1" || selection[0].UnitPrice != 45 {
			t.Errorf("unexpected first selection %+v", selection[0])
		}
		if selection[1].UnitID != "A-2" || selection[1].UnitPrice != 80 {
			t.Errorf("unexpected second selection %+v", selection[1])
		}
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		svc, _, eventID := seededService(t)

		_, err := svc.ResolveSelection(context.Background(), eventID, []string{"A-1", "Z-9"})
		if err == nil || !strings.Contains(err.Error(), "unknown unit") {
			t.Fatalf("expected unknown unit error, got %v", err)
		}
	})

	t.Run("rejects duplicate request entries", func(t *testing.T) {
		svc, _, eventID := seededService(t)

		_, err := svc.ResolveSelection(context.Background(), eventID, []string{"A-1", "A-1"})
		if err == nil || !strings.Contains(err.Error(), "duplicate unit") {
			t.Fatalf("expected duplicate unit error, got %v", err)
		}
	})

	t.Run("reflects current tier price at resolve time", func(t *testing.T) {
		svc, repo, eventID := seededService(t)

		if err := repo.UpdateUnitTypePrice(context.Background(), eventID, "floor", 95); err != nil {
			t.Fatalf("price update: %v", err)
		}

		selection, err := svc.ResolveSelection(context.Background(), eventID, []string{"A-1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if selection[0].UnitPrice != 95 {
			t.Errorf("expected updated price 95, got %v", selection[0].UnitPrice)
		}
	})
}

func TestUpdateTierPrice(t *testing.T) {
	svc, repo, eventID := seededService(t)

	if err := svc.UpdateTierPrice(context.Background(), eventID, "floor", 95); err != nil {
		t.Fatalf("UpdateTierPrice: %v", err)
	}
	for _, ut := range repo.types {
		if ut.Name == "floor" && ut.Price != 95 {
			t.Errorf("floor price = %v, want 95", ut.Price)
		}
	}

	if err := svc.UpdateTierPrice(context.Background(), eventID, "mezzanine", 10); err == nil {
		t.Error("expected error for unknown tier")
	}
	if err := svc.UpdateTierPrice(context.Background(), eventID, "floor", -1); err == nil {
		t.Error("expected error for negative price")
	}
}
