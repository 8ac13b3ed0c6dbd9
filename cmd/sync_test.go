package cmd

import (
	"testing"

	"subdaap-sync/core/reconcile"
	"subdaap-sync/feature/synchronizer"

	"github.com/stretchr/testify/assert"
)

func TestTotalEntities(t *testing.T) {
	results := []*synchronizer.Result{
		{
			Items:  reconcile.Summary{Total: 3, Inserted: 2, Unchanged: 1},
			Albums: reconcile.Summary{Total: 1, Removed: 1},
		},
		nil,
		{
			Database:   reconcile.Summary{Total: 1, Updated: 1},
			Containers: reconcile.Summary{Total: 2, Inserted: 1, Unchanged: 1},
		},
	}

	total := totalEntities(results)
	assert.Equal(t, reconcile.Summary{Total: 7, Inserted: 3, Updated: 1, Unchanged: 2, Removed: 1}, total)
	assert.Equal(t, 5, total.Writes())
	assert.Equal(t, reconcile.Summary{}, totalEntities(nil))
}
