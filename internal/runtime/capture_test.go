package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

func TestCapturePreservesEmissionOrder(t *testing.T) {
	c := NewCapture()
	c.Append(domain.StreamStdout, "computing\n")
	c.Append(domain.StreamStderr, "warning: deprecated\n")
	c.Append(domain.StreamStdout, "done\n")

	records := c.Records()
	assert.Len(t, records, 3)
	assert.Equal(t, domain.StreamStderr, records[1].Kind)

	assert.Equal(t, "computing\nwarning: deprecated\ndone\n", c.Drain())
}

func TestCaptureDrainAddsMissingNewlines(t *testing.T) {
	c := NewCapture()
	c.Append(domain.StreamStdout, "no newline")
	c.Append(domain.StreamStderr, "also none")

	assert.Equal(t, "no newline\nalso none\n", c.Drain())
}

func TestCaptureReset(t *testing.T) {
	c := NewCapture()
	c.Append(domain.StreamStdout, "stale\n")
	c.Reset()

	assert.Empty(t, c.Records())
	assert.Equal(t, "", c.Drain())

	c.Append(domain.StreamStdout, "fresh\n")
	assert.Equal(t, "fresh\n", c.Drain())
}
