package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestChangeSet_Partition tests that entries are split into written and untouched ids.
func TestChangeSet_Partition(t *testing.T) {
	cs := NewChangeSet[string]()
	cs.Preload("a", 1, 100) // unchanged
	cs.Preload("b", 2, 200) // updated
	cs.Preload("c", 3, 300) // removed

	cs.Touch("a", 1, 100, false)
	cs.Touch("b", 2, 201, true)
	cs.Touch("d", 4, 400, true) // inserted

	assert.Equal(t, []int64{2, 4}, cs.Written())
	assert.Equal(t, []int64{3}, cs.Untouched())
	assert.Equal(t, []int64{1, 2, 4}, cs.TouchedIDs())

	s := cs.Summary()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Inserted)
	assert.Equal(t, 1, s.Updated)
	assert.Equal(t, 1, s.Unchanged)
	assert.Equal(t, 1, s.Removed)
	assert.Equal(t, 3, s.Writes())
}

// TestChangeSet_LookupVersusTouched tests that preloaded entries are only visible to Touched after a touch.
func TestChangeSet_LookupVersusTouched(t *testing.T) {
	cs := NewChangeSet[string]()
	cs.Preload("artist-1", 7, 42)

	entry, ok := cs.Lookup("artist-1")
	assert.True(t, ok)
	assert.Equal(t, int64(7), entry.ID)
	assert.Equal(t, Unseen, entry.State)

	_, ok = cs.Touched("artist-1")
	assert.False(t, ok)
	assert.False(t, cs.IsTouched("artist-1"))

	cs.Touch("artist-1", 7, 42, false)
	assert.True(t, cs.IsTouched("artist-1"))

	_, ok = cs.Lookup("missing")
	assert.False(t, ok)
}

// TestChangeSet_TouchTwiceKeepsWrite tests that a later no-op touch does not hide an earlier write.
func TestChangeSet_TouchTwiceKeepsWrite(t *testing.T) {
	cs := NewChangeSet[int64]()
	cs.Touch(10, 1, 5, true)
	cs.Touch(10, 1, 5, false)

	assert.Equal(t, []int64{1}, cs.Written())
	assert.Equal(t, 1, cs.Summary().Inserted)
}

// TestChangeSet_Empty tests that an empty set yields empty, non-nil slices.
func TestChangeSet_Empty(t *testing.T) {
	cs := NewChangeSet[string]()
	assert.NotNil(t, cs.Written())
	assert.Empty(t, cs.Written())
	assert.Empty(t, cs.Untouched())
	assert.Equal(t, Summary{}, cs.Summary())
}

func TestSummary_Add(t *testing.T) {
	a := Summary{Total: 1, Inserted: 1}
	b := Summary{Total: 2, Removed: 2}
	assert.Equal(t, Summary{Total: 3, Inserted: 1, Removed: 2}, a.Add(b))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unseen", Unseen.String())
	assert.Equal(t, "touched", Touched.String())
	assert.Equal(t, "unknown", State(9).String())
}
