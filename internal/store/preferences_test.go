package store

import (
	"testing"

	"github.com/rfoley/lodestar/internal/database"
	"github.com/rfoley/lodestar/internal/model"
)

func setupPreferenceTestDB(t *testing.T) *PreferenceStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPreferenceStore(db)
}

func TestLoadDefaults(t *testing.T) {
	ps := setupPreferenceTestDB(t)

	prefs, err := ps.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := model.DefaultPreferences()
	if prefs != want {
		t.Errorf("fresh db prefs = %+v, want defaults %+v", prefs, want)
	}
	if !prefs.TaskDue || !prefs.Browser {
		t.Error("expected categories enabled by default")
	}
	if prefs.DoNotDisturb {
		t.Error("do-not-disturb should default off")
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	ps := setupPreferenceTestDB(t)

	p := model.DefaultPreferences()
	p.TaskDue = false
	p.DoNotDisturb = true
	p.HealthTime = "07:00"
	p.WeeklyPlanningDay = 5
	p.WeeklyPlanningTime = "20:00"

	if err := ps.Save(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := ps.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != p {
		t.Errorf("roundtrip = %+v, want %+v", got, p)
	}
}

func TestLoadIgnoresInvalidWeekday(t *testing.T) {
	ps := setupPreferenceTestDB(t)

	if err := ps.set("weekly_planning_day", "banana"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ps.set("weekly_planning_day", "9"); err != nil {
		t.Fatalf("set: %v", err)
	}

	prefs, err := ps.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if prefs.WeeklyPlanningDay != model.DefaultPreferences().WeeklyPlanningDay {
		t.Errorf("weekday = %d, want default", prefs.WeeklyPlanningDay)
	}
}

func TestSaveOverwrites(t *testing.T) {
	ps := setupPreferenceTestDB(t)

	p := model.DefaultPreferences()
	p.Health = false
	if err := ps.Save(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	p.Health = true
	if err := ps.Save(p); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, _ := ps.Load()
	if !got.Health {
		t.Error("expected health re-enabled after second save")
	}
}
