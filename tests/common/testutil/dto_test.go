//go:build unit

package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingT struct {
	failures []string
	stopped  bool
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() { r.stopped = true }

func (r *recordingT) Helper() {}

func TestDtoMap(t *testing.T) {
	t.Run("applies mutations to the encoded body", func(t *testing.T) {
		body := struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}{Email: "a@example.com", Name: "Ada"}

		m := DtoMap(t, body, Field("name", nil))

		assert.Equal(t, map[string]any{"email": "a@example.com"}, m)
	})

	t.Run("unencodable body fails the test", func(t *testing.T) {
		rec := &recordingT{}

		DtoMap(rec, map[string]any{"ch": make(chan int)})

		assert.True(t, rec.stopped)
		assert.NotEmpty(t, rec.failures)
	})

	t.Run("non-object body fails the test", func(t *testing.T) {
		rec := &recordingT{}

		DtoMap(rec, []int{1, 2})

		assert.True(t, rec.stopped)
		assert.Contains(t, rec.failures[0], "unmarshal request body")
	})
}
