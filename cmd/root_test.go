package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistration(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"audit", "audit-all", "rules", "runs"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestRulesSubcommands(t *testing.T) {
	var resolve bool
	for _, c := range rulesCmd.Commands() {
		if c.Name() == "resolve" {
			resolve = true
		}
	}
	assert.True(t, resolve)
}
