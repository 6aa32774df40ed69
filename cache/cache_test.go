package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonl2csv/models"
)

func TestSetAndGetRun(t *testing.T) {
	c := New()

	record := &models.RunRecord{RunID: "20240101120000_abcd1234", Status: "succeeded"}
	c.SetRun(record)

	got, found := c.GetRun(record.RunID)
	require.True(t, found)
	assert.Equal(t, record, got)
}

func TestGetRunMissing(t *testing.T) {
	c := New()

	_, found := c.GetRun("missing")
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("key", "value", time.Minute)
	c.Delete("key")

	_, found := c.Get("key")
	assert.False(t, found)
}
