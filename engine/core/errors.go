package core

import (
	"errors"
)

var (
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
	ErrAssetNotFound    = errors.New("asset not found")
	ErrNoLoader         = errors.New("no loader registered for asset type")
	ErrNotInitialized   = errors.New("subsystem not initialized")
	ErrUnknownCommand   = errors.New("unknown playback command")
	ErrQueueFull        = errors.New("command queue is full")
	ErrUnknown          = errors.New("unknown")
)
