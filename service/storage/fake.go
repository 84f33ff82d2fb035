package storage

import (
	"sync"
)

// FakeService keeps everything in memory and counts reads, for tests.
type FakeService struct {
	mu        sync.Mutex
	persisted map[string][]byte
	bundled   map[string][]byte

	PersistedReads int
	BundledReads   int
	Writes         int
}

func NewFake() *FakeService {
	return &FakeService{
		persisted: map[string][]byte{},
		bundled:   map[string][]byte{},
	}
}

// Bundle adds a fallback asset.
func (svc *FakeService) Bundle(name string, data []byte) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.bundled[name] = append([]byte(nil), data...)
}

// Persist seeds the persisted store without counting a write.
func (svc *FakeService) Persist(name string, data []byte) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.persisted[name] = append([]byte(nil), data...)
}

func (svc *FakeService) ReadPersisted(name string) ([]byte, bool, error) {
	if err := checkName(name); err != nil {
		return nil, false, err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.PersistedReads++
	data, ok := svc.persisted[name]
	return data, ok, nil
}

func (svc *FakeService) WritePersisted(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.Writes++
	svc.persisted[name] = append([]byte(nil), data...)
	return nil
}

func (svc *FakeService) ReadBundled(name string) ([]byte, bool, error) {
	if err := checkName(name); err != nil {
		return nil, false, err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.BundledReads++
	data, ok := svc.bundled[name]
	return data, ok, nil
}

func (svc *FakeService) PersistedPath(name string) string {
	return "mem://" + name
}

// HasPersisted reports whether name is in the persisted store.
func (svc *FakeService) HasPersisted(name string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	_, ok := svc.persisted[name]
	return ok
}
