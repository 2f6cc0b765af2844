package sqlite

import (
	"testing"

	"github.com/FawkesguyD/Love/internal/store"
	"github.com/FawkesguyD/Love/internal/store/storetest"
)

func TestSqliteStoreCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := New(":memory:")
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		return s
	})
}
