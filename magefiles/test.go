//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test. The GLFW window package needs a display and is
// only compiled, not exercised.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests of one package, e.g. mage test:package ./engine/async
func (Test) Package(pkg string) error {
	if _, err := executeCmd("go", withArgs("test", "-race", "-v", pkg), withStream()); err != nil {
		return err
	}
	return nil
}
