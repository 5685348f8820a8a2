package redis

import "context"

// StudentCacheInterface defines the interface for identity caching.
type StudentCacheInterface interface {
	GetStudent(ctx context.Context, id string) (*CachedStudent, error)
	GetStudentsBatch(ctx context.Context, ids []string) (map[string]*CachedStudent, []string, error)
	SetStudent(ctx context.Context, student *CachedStudent) error
	InvalidateStudent(ctx context.Context, id string) error
}

// Ensure concrete types implement interfaces.
var _ StudentCacheInterface = (*StudentCache)(nil)
