package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BucketKey addresses one course bucket by its (level, semester) pair.
type BucketKey struct {
	Level    int `json:"level"`
	Semester int `json:"semester"`
}

// CourseBucket groups course references under a (level, semester) key. The
// same shape serves available-courses on faculties/departments and
// registered-courses on students.
type CourseBucket struct {
	Level    int        `json:"level"`
	Semester int        `json:"semester"`
	Courses  StringList `json:"courses"`
}

// Key returns the bucket's addressing key.
func (b CourseBucket) Key() BucketKey {
	return BucketKey{Level: b.Level, Semester: b.Semester}
}

// CourseBuckets persists a list of course buckets as JSONB. At most one
// bucket exists per (level, semester); all mutation is key-based so removal
// order can never corrupt the list.
type CourseBuckets []CourseBucket

// Value marshals the buckets to JSON for persistence.
func (b CourseBuckets) Value() (driver.Value, error) {
	if b == nil {
		b = CourseBuckets{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal course buckets: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON payload into the buckets.
func (b *CourseBuckets) Scan(value interface{}) error {
	*b = CourseBuckets{}
	return scanJSON(value, b, "CourseBuckets")
}

// Find returns the bucket for key, if present.
func (b CourseBuckets) Find(key BucketKey) (CourseBucket, bool) {
	for _, bucket := range b {
		if bucket.Key() == key {
			return bucket, true
		}
	}
	return CourseBucket{}, false
}

// Replace overwrites the bucket holding bucket's key, appending when no such
// bucket exists. Replacement is whole-bucket: the previous course list for
// that key is discarded.
func (b CourseBuckets) Replace(bucket CourseBucket) CourseBuckets {
	for i, existing := range b {
		if existing.Key() == bucket.Key() {
			b[i] = bucket
			return b
		}
	}
	return append(b, bucket)
}

// Remove deletes the bucket for key, reporting whether one existed.
func (b CourseBuckets) Remove(key BucketKey) (CourseBuckets, bool) {
	for i, bucket := range b {
		if bucket.Key() == key {
			return append(b[:i], b[i+1:]...), true
		}
	}
	return b, false
}

// RemoveKeys deletes every bucket whose key appears in keys, returning how
// many buckets were removed. Absent keys are per-key no-ops.
func (b CourseBuckets) RemoveKeys(keys []BucketKey) (CourseBuckets, int) {
	removed := 0
	for _, key := range keys {
		var ok bool
		if b, ok = b.Remove(key); ok {
			removed++
		}
	}
	return b, removed
}
