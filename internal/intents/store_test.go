package intents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// memStore is an in-memory stand-in for the backend. It understands the
// subset of PostgREST filter operators the executors use (eq, gte, lt,
// ilike) so tests can run realistic multi-step flows.
type memStore struct {
	mu     sync.Mutex
	tables map[string][]map[string]interface{}

	insertCount map[string]int
	failInsert  map[string]error
	failUpdate  map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		tables:      make(map[string][]map[string]interface{}),
		insertCount: make(map[string]int),
		failInsert:  make(map[string]error),
		failUpdate:  make(map[string]error),
	}
}

func (m *memStore) seed(table string, record interface{}) {
	row := toRow(record)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], row)
}

func toRow(record interface{}) map[string]interface{} {
	data, _ := json.Marshal(record)
	var row map[string]interface{}
	_ = json.Unmarshal(data, &row)
	return row
}

func (m *memStore) Find(ctx context.Context, table string, filter map[string]string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []map[string]interface{}
	for _, row := range m.tables[table] {
		if rowMatches(row, filter) {
			matched = append(matched, row)
		}
	}
	if matched == nil {
		matched = []map[string]interface{}{}
	}
	data, _ := json.Marshal(matched)
	return json.Unmarshal(data, dest)
}

func rowMatches(row map[string]interface{}, filter map[string]string) bool {
	for key, expr := range filter {
		column := key
		if i := strings.IndexByte(key, '#'); i >= 0 {
			column = key[:i]
		}
		value := fmt.Sprintf("%v", row[column])
		switch {
		case strings.HasPrefix(expr, "eq."):
			if value != expr[3:] {
				return false
			}
		case strings.HasPrefix(expr, "gte."):
			if value < expr[4:] {
				return false
			}
		case strings.HasPrefix(expr, "lt."):
			if value >= expr[3:] {
				return false
			}
		case strings.HasPrefix(expr, "ilike."):
			if !strings.EqualFold(value, expr[6:]) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (m *memStore) Insert(ctx context.Context, table string, record interface{}, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failInsert[table]; err != nil {
		return err
	}
	row := toRow(record)
	m.tables[table] = append(m.tables[table], row)
	m.insertCount[table]++

	if dest != nil {
		data, _ := json.Marshal(row)
		return json.Unmarshal(data, dest)
	}
	return nil
}

func (m *memStore) Update(ctx context.Context, table string, id string, patch map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failUpdate[table]; err != nil {
		return err
	}
	for _, row := range m.tables[table] {
		if fmt.Sprintf("%v", row["id"]) == id {
			for k, v := range patch {
				row[k] = v
			}
			return nil
		}
	}
	return fmt.Errorf("no row %s in %s", id, table)
}
