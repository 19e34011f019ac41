//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the demo in a window with the default configuration.
func (Run) Demo() error {
	fmt.Println("Run quad N...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "assets/config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Renders a few seconds offscreen, writing snapshots to the configured directory.
func (Run) Headless() error {
	_, err := executeCmd("go", withArgs("run", ".", "-config", "assets/config.toml", "-headless", "-frames", "240"), withStream())
	return err
}
