package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestLookupCommand(t *testing.T) {
	for _, name := range []string{"run", "build", "version", "help"} {
		cmd := lookupCommand(name)
		be.True(t, cmd != nil)
		be.Equal(t, cmd.name, name)
	}
	be.True(t, lookupCommand("transpile") == nil)
}
