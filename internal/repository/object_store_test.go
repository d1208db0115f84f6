package repository

import (
	"context"
	"edusphere_backend/internal/util"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failDel bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{objects: map[string][]byte{}, types: map[string]string{}}
}

func (p *fakeProvider) PutObject(ctx context.Context, name string, data []byte, contentType string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[name] = append([]byte(nil), data...)
	p.types[name] = contentType
	return nil
}

func (p *fakeProvider) GetObject(ctx context.Context, name string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.objects[name]
	if !ok {
		return nil, util.ErrKeyNotFound
	}
	return data, nil
}

func (p *fakeProvider) RemoveObject(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failDel {
		return errors.New("access denied")
	}
	delete(p.objects, name)
	return nil
}

func (p *fakeProvider) Ping(ctx context.Context) error { return nil }

func TestObjectStoreContract(t *testing.T) {
	testStoreContract(t, NewObjectStore(newFakeProvider(), util.StoreMinio))
}

func TestObjectStoreLayout(t *testing.T) {
	p := newFakeProvider()
	s := NewObjectStore(p, util.StoreOSS)
	require.NoError(t, s.Put(context.Background(), util.KeyChallenges, []byte(`[]`)))

	assert.Contains(t, p.objects, "state/userChallenges.json")
	assert.Equal(t, "application/json", p.types["state/userChallenges.json"])
	assert.Equal(t, util.StoreOSS, s.Name())
}

func TestObjectStoreDeleteJoinsErrors(t *testing.T) {
	p := newFakeProvider()
	p.failDel = true
	err := NewObjectStore(p, util.StoreMinio).Delete(context.Background(), util.KeyUser, util.KeyLessons)

	require.Error(t, err)
	assert.Contains(t, err.Error(), util.KeyUser)
	assert.Contains(t, err.Error(), util.KeyLessons)
}
