package service_test

import (
	"testing"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/version"
)

func TestSystemService(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.CheckHealth(); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)
		db.Close()

		if err := svc.CheckHealth(); err == nil {
			t.Error("Expected error for closed database")
		}
	})

	t.Run("version reports app and schema version", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		info, err := svc.CheckVersion()
		if err != nil {
			t.Fatalf("CheckVersion() returned unexpected error: %v", err)
		}
		if info.AppVersion != version.Version {
			t.Errorf("Expected app version %s, got %s", version.Version, info.AppVersion)
		}
		if info.DbVersion != "1" {
			t.Errorf("Expected schema version 1, got %s", info.DbVersion)
		}
	})
}
