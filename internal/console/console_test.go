package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_Linef(t *testing.T) {
	buf := &bytes.Buffer{}
	c := New(buf)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Linef("Thread %d startet.", i)
		}(i)
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "Thread "), line)
		assert.True(t, strings.HasSuffix(line, " startet."), line)
	}
}

func TestConsole_Lines(t *testing.T) {
	buf := &bytes.Buffer{}
	c := New(buf)

	var testCases = []struct {
		description string
		writes      []string
		expect      string
		flushed     string
	}{
		{description: "whole line", writes: []string{"Prozess 0 startet.\n"}, expect: "Prozess 0 startet.\n"},
		{description: "split line", writes: []string{"Prozess 0 ", "beendet.", "\n"}, expect: "Prozess 0 beendet.\n"},
		{description: "several lines", writes: []string{"a\nb\nc"}, expect: "a\nb\n", flushed: "a\nb\nc\n"},
		{description: "no newline", writes: []string{"rest"}, expect: "", flushed: "rest\n"},
	}
	for _, testCase := range testCases {
		buf.Reset()
		lines := c.Lines()
		for _, chunk := range testCase.writes {
			n, err := lines.Write([]byte(chunk))
			assert.NoError(t, err, testCase.description)
			assert.Equal(t, len(chunk), n, testCase.description)
		}
		assert.Equal(t, testCase.expect, buf.String(), testCase.description)
		assert.NoError(t, lines.Flush(), testCase.description)
		flushed := testCase.flushed
		if flushed == "" {
			flushed = testCase.expect
		}
		assert.Equal(t, flushed, buf.String(), testCase.description)
	}
}

func TestConsole_LinesConcurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	c := New(buf)
	const streams, rounds = 8, 200
	var wg sync.WaitGroup
	for i := 0; i < streams; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lines := c.Lines()
			for j := 0; j < rounds; j++ {
				_, _ = lines.Write([]byte("Thread "))
				_, _ = lines.Write([]byte("beendet.\n"))
			}
		}()
	}
	wg.Wait()
	output := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, output, streams*rounds)
	for _, line := range output {
		assert.Equal(t, "Thread beendet.", line)
	}
}
