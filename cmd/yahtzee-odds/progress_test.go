package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
)

func TestDotProgressReporter_PrintsDots(t *testing.T) {
	mock := quartz.NewMock(t)
	reporter := NewDotProgressReporter(10000, mock)

	var buf bytes.Buffer
	reporter.out = &buf

	reporter.OnProgress(500) // 5 dots at 100 turns per dot

	assert.Equal(t, ".....", buf.String())

	reporter.OnProgress(500) // no new progress, no new dots
	assert.Equal(t, ".....", buf.String())

	reporter.OnProgress(1000)
	assert.Equal(t, "..........", buf.String())
}

func TestDotProgressReporter_LineBreakWithCount(t *testing.T) {
	mock := quartz.NewMock(t)
	reporter := NewDotProgressReporter(10000, mock)

	var buf bytes.Buffer
	reporter.out = &buf

	reporter.OnProgress(5000) // 50 dots, exactly one full line

	out := buf.String()
	assert.Contains(t, out, strings.Repeat(".", 50))
	assert.Contains(t, out, "5000/10000 (50%)")
}

func TestDotProgressReporter_FinishReportsRate(t *testing.T) {
	mock := quartz.NewMock(t)
	reporter := NewDotProgressReporter(10000, mock)

	var buf bytes.Buffer
	reporter.out = &buf

	mock.Advance(2 * time.Second)
	reporter.OnProgress(10000)
	reporter.Finish(10000)

	out := buf.String()
	assert.Contains(t, out, "completed 10000 turns in 2.0s")
	assert.Contains(t, out, "(5000 turns/sec)")
}
