//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the viewer in a window.
func (Run) Viewer() error {
	fmt.Println("Run viewer...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "trainyard.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the viewer without a window for the configured number of frames.
func (Run) Headless() error {
	fmt.Println("Run headless viewer...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "trainyard.toml", "-headless"), withStream()); err != nil {
		return err
	}
	return nil
}
