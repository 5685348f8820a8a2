package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StudentCache caches identity lookups in Redis. Ride search enriches
// every result with the offerer's name and phone, so popular routes hit
// the students table once per TTL instead of once per searcher.
type StudentCache struct {
	client *redis.Client
}

// NewStudentCache creates a new StudentCache.
func NewStudentCache(client *redis.Client) *StudentCache {
	return &StudentCache{client: client}
}

// StudentCacheTTL bounds identity staleness. Profiles change rarely.
const StudentCacheTTL = 5 * time.Minute

const studentCachePrefix = "cache:student:"

// CachedStudent is the cached identity projection.
type CachedStudent struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	RegistrationNo string `json:"registration_no"`
	Phone          string `json:"phone"`
}

// GetStudent retrieves a student from cache. A cache miss returns
// (nil, nil).
func (s *StudentCache) GetStudent(ctx context.Context, id string) (*CachedStudent, error) {
	data, err := s.client.Get(ctx, studentCachePrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var student CachedStudent
	if err := json.Unmarshal(data, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// SetStudent stores a student in cache.
func (s *StudentCache) SetStudent(ctx context.Context, student *CachedStudent) error {
	data, err := json.Marshal(student)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, studentCachePrefix+student.ID, data, StudentCacheTTL).Err()
}

// InvalidateStudent removes a student from cache.
func (s *StudentCache) InvalidateStudent(ctx context.Context, id string) error {
	return s.client.Del(ctx, studentCachePrefix+id).Err()
}

// GetStudentsBatch retrieves multiple students in one pipeline round
// trip. Returns the hits keyed by ID plus the IDs that missed.
func (s *StudentCache) GetStudentsBatch(ctx context.Context, ids []string) (map[string]*CachedStudent, []string, error) {
	if len(ids) == 0 {
		return make(map[string]*CachedStudent), nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(ids))
	for _, id := range ids {
		cmds[id] = pipe.Get(ctx, studentCachePrefix+id)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, ids, err
	}

	result := make(map[string]*CachedStudent)
	var missing []string
	for id, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}
		var student CachedStudent
		if err := json.Unmarshal(data, &student); err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = &student
	}
	return result, missing, nil
}
