package gamedata

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultTable is the table name used when none is configured.
const DefaultTable = "planet"

var (
	mu     sync.RWMutex
	tables = map[string]func() *GameData{}
)

func Register(name string, factory func() *GameData) {
	mu.Lock()
	defer mu.Unlock()
	tables[name] = factory
}

func Load(name string) (*GameData, error) {
	mu.RLock()
	f, ok := tables[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown material table: %s", name)
	}
	return f(), nil
}

// MustLoad is Load for tables registered by this package; it panics on an
// unknown name.
func MustLoad(name string) *GameData {
	gd, err := Load(name)
	if err != nil {
		panic(err)
	}
	return gd
}

func RegisteredTables() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
