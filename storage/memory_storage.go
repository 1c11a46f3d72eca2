package storage

import (
	"context"
	"strings"
	"sync"
)

type memoryStorage struct {
	lock sync.Mutex
	data map[string][]byte
}

func NewMemoryStorage() *memoryStorage {
	return &memoryStorage{data: make(map[string][]byte)}
}

func (m *memoryStorage) GetKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	ret := []string{}

	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			ret = append(ret, k)
		}
	}

	return ret, nil
}

func (m *memoryStorage) Write(ctx context.Context, key string, data []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.data[key] = data

	return nil
}

func (m *memoryStorage) Read(ctx context.Context, key string) ([]byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	data, ok := m.data[key]
	if !ok {
		return nil, ErrDoesNotExist
	}

	return data, nil
}
