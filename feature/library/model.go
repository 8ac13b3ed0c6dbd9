package library

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"subdaap-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// View is the live state of one database.
type View struct {
	id       int64
	database atomic.Pointer[models.Database]

	items      *rows[models.Item]
	containers *rows[models.Container]

	mu      sync.Mutex
	members map[int64]*rows[models.ContainerItem]
	db      *gorm.DB
}

func newView(db *gorm.DB, database models.Database) *View {
	dbID := database.ID
	v := &View{
		id:      dbID,
		db:      db,
		members: make(map[int64]*rows[models.ContainerItem]),
		items: newRows(func(ctx context.Context, ids []int64) ([]models.Item, error) {
			var out []models.Item
			err := db.WithContext(ctx).Where("database_id = ? AND id IN ?", dbID, ids).Find(&out).Error
			return out, err
		}, func(i models.Item) int64 { return i.ID }),
		containers: newRows(func(ctx context.Context, ids []int64) ([]models.Container, error) {
			var out []models.Container
			err := db.WithContext(ctx).Where("database_id = ? AND id IN ?", dbID, ids).Find(&out).Error
			return out, err
		}, func(c models.Container) int64 { return c.ID }),
	}
	v.database.Store(&database)
	return v
}

// Database returns the database row the view was last refreshed with.
func (v *View) Database() models.Database {
	return *v.database.Load()
}

func (v *View) memberRows(containerID int64) *rows[models.ContainerItem] {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.members[containerID]
	if !ok {
		dbID := v.id
		db := v.db
		r = newRows(func(ctx context.Context, ids []int64) ([]models.ContainerItem, error) {
			var out []models.ContainerItem
			err := db.WithContext(ctx).
				Where("database_id = ? AND container_id = ? AND id IN ?", dbID, containerID, ids).
				Find(&out).Error
			return out, err
		}, func(ci models.ContainerItem) int64 { return ci.ID })
		v.members[containerID] = r
	}
	return r
}

// Items returns a snapshot of the items ordered by id.
func (v *View) Items() []models.Item {
	return v.items.All()
}

// Item returns one item.
func (v *View) Item(id int64) (models.Item, bool) {
	return v.items.Get(id)
}

// Containers returns a snapshot of the containers ordered by id.
func (v *View) Containers() []models.Container {
	return v.containers.All()
}

// Container returns one container.
func (v *View) Container(id int64) (models.Container, bool) {
	return v.containers.Get(id)
}

// ContainerItems returns the members of a container. Playlist members are
// ordered by position; base container members by id.
func (v *View) ContainerItems(containerID int64) []models.ContainerItem {
	out := v.memberRows(containerID).All()
	slices.SortStableFunc(out, func(a, b models.ContainerItem) int {
		switch {
		case a.Order == nil || b.Order == nil:
			return 0
		case *a.Order < *b.Order:
			return -1
		case *a.Order > *b.Order:
			return 1
		}
		return 0
	})
	return out
}

// Model is the live model of every database in the local store.
type Model struct {
	db *gorm.DB

	mu    sync.RWMutex
	views map[int64]*View
}

// NewModel returns an empty model reading from db.
func NewModel(db *gorm.DB) *Model {
	return &Model{db: db, views: make(map[int64]*View)}
}

// Load replaces the model with the full content of the store.
func (m *Model) Load(ctx context.Context) error {
	var databases []models.Database
	if err := m.db.WithContext(ctx).Order("id").Find(&databases).Error; err != nil {
		return fmt.Errorf("load databases: %w", err)
	}

	views := make(map[int64]*View, len(databases))
	for _, d := range databases {
		v := newView(m.db, d)

		var items []models.Item
		if err := m.db.WithContext(ctx).Where("database_id = ?", d.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("load items of database %d: %w", d.ID, err)
		}
		v.items.replace(items)

		var containers []models.Container
		if err := m.db.WithContext(ctx).Where("database_id = ?", d.ID).Find(&containers).Error; err != nil {
			return fmt.Errorf("load containers of database %d: %w", d.ID, err)
		}
		v.containers.replace(containers)

		var members []models.ContainerItem
		if err := m.db.WithContext(ctx).Where("database_id = ?", d.ID).Find(&members).Error; err != nil {
			return fmt.Errorf("load container items of database %d: %w", d.ID, err)
		}
		grouped := make(map[int64][]models.ContainerItem)
		for _, ci := range members {
			grouped[ci.ContainerID] = append(grouped[ci.ContainerID], ci)
		}
		for cid, group := range grouped {
			v.memberRows(cid).replace(group)
		}

		views[d.ID] = v
	}

	m.mu.Lock()
	m.views = views
	m.mu.Unlock()
	return nil
}

// RefreshDatabases reloads the set of databases. New databases get empty
// views; views of vanished databases are dropped.
func (m *Model) RefreshDatabases(ctx context.Context) error {
	var databases []models.Database
	if err := m.db.WithContext(ctx).Find(&databases).Error; err != nil {
		return fmt.Errorf("refresh databases: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	next := make(map[int64]*View, len(databases))
	for _, d := range databases {
		if v, ok := m.views[d.ID]; ok {
			v.database.Store(&d)
			next[d.ID] = v
			continue
		}
		next[d.ID] = newView(m.db, d)
	}
	m.views = next
	return nil
}

// Databases returns the databases ordered by id.
func (m *Model) Databases() []models.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Database, 0, len(m.views))
	for _, v := range m.views {
		out = append(out, v.Database())
	}
	slices.SortFunc(out, func(a, b models.Database) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// View returns the view of a database.
func (m *Model) View(databaseID int64) (*View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.views[databaseID]
	return v, ok
}

// view returns the view of a database, creating an empty one when the
// database was not refreshed yet.
func (m *Model) view(databaseID int64) *View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[databaseID]
	if !ok {
		v = newView(m.db, models.Database{ID: databaseID})
		m.views[databaseID] = v
	}
	return v
}

// Items returns the item collection of a database.
func (m *Model) Items(databaseID int64) Collection {
	return m.view(databaseID).items
}

// Containers returns the container collection of a database.
func (m *Model) Containers(databaseID int64) Collection {
	return m.view(databaseID).containers
}

// ContainerItems returns the membership collection of a container.
func (m *Model) ContainerItems(databaseID, containerID int64) Collection {
	return m.view(databaseID).memberRows(containerID)
}
