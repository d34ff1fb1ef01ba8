package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	v := Validation("seat %q is bad", "Z9")
	s := Storage("read", "data/x.json", errors.New("boom"))
	c := &ConsistencyError{Written: []string{"a.json"}, Failed: "b.json", Err: errors.New("disk full")}

	assert.True(t, IsValidation(v))
	assert.False(t, IsValidation(s))
	assert.True(t, IsStorage(fmt.Errorf("wrapped: %w", s)))
	assert.True(t, IsConsistency(c))
	assert.False(t, IsStorage(c))

	assert.Equal(t, `seat "Z9" is bad`, v.Error())
	assert.Contains(t, s.Error(), "data/x.json")
	assert.Contains(t, c.Error(), "a.json")
	assert.Contains(t, c.Error(), "b.json")
}

func TestStorageUnwrap(t *testing.T) {
	err := Storage("read", "comments.json", ErrNotExist)
	assert.True(t, errors.Is(err, ErrNotExist))
}
