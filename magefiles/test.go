//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Packages that build without cgo: everything but the glfw platform and
// the Vulkan backend.
var headlessPackages = []string{
	"./engine", "./engine/assets/...", "./engine/config", "./engine/containers",
	"./engine/controls", "./engine/core", "./engine/font", "./engine/geometry",
	"./engine/math", "./engine/remote", "./engine/renderer",
	"./engine/renderer/components", "./engine/renderer/metadata",
	"./engine/renderer/offscreen", "./engine/renderer/raster", "./engine/scene",
	"./engine/systems", "./engine/tween", "./engine/ui", "./showcase",
}

// Runs every test with the race detector.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Runs the tests of the packages that build without cgo, for machines
// without the glfw headers.
func (Test) Headless() error {
	args := append([]string{"test"}, headlessPackages...)
	_, err := executeCmd("go", withArgs(args...), withEnv("CGO_ENABLED=0"), withStream())
	return err
}
