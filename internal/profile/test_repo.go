package profile

import (
	"context"
	"sync"
)

var _ profileRepo = (*TestRepo)(nil)

// TestRepo is an in-memory singleton profile repo for unit tests.
type TestRepo struct {
	mutex   sync.Mutex
	profile *Profile
}

func NewTestRepo() *TestRepo {
	return &TestRepo{}
}

func (r *TestRepo) Get(_ context.Context) (*Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.profile == nil {
		return nil, nil
	}
	stored := *r.profile
	return &stored, nil
}

func (r *TestRepo) Upsert(_ context.Context, profile *Profile) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	profile.ID = singletonID
	stored := *profile
	r.profile = &stored
	return nil
}
