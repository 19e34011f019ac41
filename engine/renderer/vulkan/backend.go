package vulkan

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/quadn/engine/core"
	"github.com/spaghettifunk/quadn/engine/platform"
	"github.com/spaghettifunk/quadn/engine/renderer/raster"
)

/**
 * @brief Presents software rendered frames through a Vulkan swapchain.
 * Every frame is written into a host visible staging buffer, then copied
 * straight into the acquired swapchain image.
 */
type VulkanRenderer struct {
	platform    *platform.Platform
	FrameNumber uint64
	context     *VulkanContext

	// Size requested while the swapchain was being rebuilt.
	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32
	recreatingSwapchain     bool

	debug bool
}

func New(p *platform.Platform, debug bool) *VulkanRenderer {
	return &VulkanRenderer{
		platform: p,
		context:  &VulkanContext{},
		debug:    debug,
	}
}

func (vr *VulkanRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize vk: %w", err)
	}

	vr.context.FramebufferWidth = appWidth
	vr.context.FramebufferHeight = appHeight

	if err := vr.createInstance(appName); err != nil {
		return err
	}

	// Surface
	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.CreateVulkanSurface(vr.context.Instance)
	if err != nil {
		return fmt.Errorf("failed to create platform surface: %w", err)
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	// Device creation
	if err := DeviceCreate(vr.context); err != nil {
		return err
	}

	// Swapchain
	sc, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc

	if err := vr.createFrames(); err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance(appName string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Quadn Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions
	requiredExtensions := vr.platform.GetRequiredExtensionNames()
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	var requiredLayers []string
	if vr.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		core.LogInfo("Required extensions: %v", requiredExtensions)

		// Validation layers are optional. Missing ones only disable the debug output.
		if hasInstanceLayer("VK_LAYER_KHRONOS_validation") {
			requiredLayers = append(requiredLayers, "VK_LAYER_KHRONOS_validation")
			core.LogInfo("Validation layers enabled.")
		} else {
			core.LogWarn("VK_LAYER_KHRONOS_validation is not available, validation disabled.")
		}
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(requiredLayers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredLayers)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		return fmt.Errorf("failed in creating the Vulkan Instance with error `%s`", VulkanResultString(res, true))
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	// Debugger
	if vr.debug {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if err := vk.Error(vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg)); err != nil {
			return fmt.Errorf("vk.CreateDebugReportCallback failed with %w", err)
		}
		vr.context.debugMessenger = dbg
		core.LogDebug("Vulkan debugger created.")
	}
	return nil
}

func hasInstanceLayer(name string) bool {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success || count == 0 {
		return false
	}
	layers := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, layers); res != vk.Success {
		return false
	}
	for i := range layers {
		layers[i].Deref()
		end := FindFirstZeroInByteArray(layers[i].LayerName[:])
		if string(layers[i].LayerName[:end]) == name {
			return true
		}
	}
	return false
}

// createFrames builds the per frame command buffers, staging buffers and sync objects.
func (vr *VulkanRenderer) createFrames() error {
	ctx := vr.context
	stagingSize := uint64(ctx.Swapchain.Extent.Width) * uint64(ctx.Swapchain.Extent.Height) * 4

	ctx.Frames = make([]*VulkanFrame, ctx.Swapchain.MaxFramesInFlight)
	for i := range ctx.Frames {
		frame := &VulkanFrame{}
		ctx.Frames[i] = frame

		cb, err := NewVulkanCommandBuffer(ctx, ctx.Device.GraphicsCommandPool)
		if err != nil {
			return err
		}
		frame.CommandBuffer = cb

		if frame.Staging, err = NewStagingBuffer(ctx, stagingSize); err != nil {
			return err
		}

		semaphoreCreateInfo := vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}
		if res := vk.CreateSemaphore(ctx.Device.LogicalDevice, &semaphoreCreateInfo, ctx.Allocator, &frame.ImageAvailable); res != vk.Success {
			return fmt.Errorf("failed to create semaphore on image available: %s", VulkanResultString(res, true))
		}
		if res := vk.CreateSemaphore(ctx.Device.LogicalDevice, &semaphoreCreateInfo, ctx.Allocator, &frame.QueueComplete); res != vk.Success {
			return fmt.Errorf("failed to create semaphore on queue complete: %s", VulkanResultString(res, true))
		}

		// Signaled, so waiting on the first frame does not block forever.
		if frame.InFlight, err = NewFence(ctx, true); err != nil {
			return err
		}
	}

	// Fences are not owned by this list.
	ctx.ImagesInFlight = make([]*VulkanFence, ctx.Swapchain.ImageCount)
	return nil
}

func (vr *VulkanRenderer) destroyFrames() {
	ctx := vr.context
	for _, frame := range ctx.Frames {
		if frame == nil {
			continue
		}
		if frame.ImageAvailable != nil {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, frame.ImageAvailable, ctx.Allocator)
		}
		if frame.QueueComplete != nil {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, frame.QueueComplete, ctx.Allocator)
		}
		if frame.InFlight != nil {
			frame.InFlight.Destroy(ctx)
		}
		if frame.Staging != nil {
			frame.Staging.Destroy(ctx)
		}
		if frame.CommandBuffer != nil {
			frame.CommandBuffer.Free(ctx, ctx.Device.GraphicsCommandPool)
		}
	}
	ctx.Frames = nil
	ctx.ImagesInFlight = nil
}

func (vr *VulkanRenderer) Shutdown() error {
	ctx := vr.context
	if ctx.Device != nil && ctx.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(ctx.Device.LogicalDevice)
	}

	// Destroy in the opposite order of creation.
	if ctx.Device != nil && ctx.Device.LogicalDevice != nil {
		vr.destroyFrames()
		if ctx.Swapchain != nil {
			ctx.Swapchain.SwapchainDestroy(ctx)
			ctx.Swapchain = nil
		}
	}

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(ctx)

	if ctx.Surface != nil {
		core.LogDebug("Destroying Vulkan surface...")
		vk.DestroySurface(ctx.Instance, ctx.Surface, ctx.Allocator)
		ctx.Surface = nil
	}

	if ctx.debugMessenger != nil {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(ctx.Instance, ctx.debugMessenger, ctx.Allocator)
		ctx.debugMessenger = nil
	}

	if ctx.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(ctx.Instance, ctx.Allocator)
		ctx.Instance = nil
	}
	return nil
}

// Resized records the new drawable size. The swapchain is rebuilt on the next Present.
func (vr *VulkanRenderer) Resized(width, height uint32) error {
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++
	core.LogDebug("Vulkan renderer backend resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
	return nil
}

/**
 * @brief Copies frame into the next swapchain image and queues it for presentation.
 * Returns core.ErrSwapchainBooting when the frame was skipped because the
 * swapchain had to be rebuilt.
 */
func (vr *VulkanRenderer) Present(frame *raster.Framebuffer) error {
	ctx := vr.context
	if vr.recreatingSwapchain {
		return core.ErrSwapchainBooting
	}

	// Check if the framebuffer has been resized. If so, a new swapchain must be created.
	if ctx.FramebufferSizeGeneration != ctx.FramebufferSizeLastGeneration {
		if err := vr.recreateSwapchain(); err != nil {
			return err
		}
		return core.ErrSwapchainBooting
	}

	current := ctx.Frames[ctx.CurrentFrame]

	// Wait for the execution of the current frame to complete. The fence being free will allow this one to move on.
	if err := current.InFlight.Wait(ctx, math.MaxUint64); err != nil {
		core.LogWarn("In-flight fence wait failure: %s", err)
		return err
	}

	index, err := ctx.Swapchain.SwapchainAcquireNextImageIndex(ctx, math.MaxUint64, current.ImageAvailable)
	if err == core.ErrSwapchainBooting {
		if err := vr.recreateSwapchain(); err != nil {
			return err
		}
		return core.ErrSwapchainBooting
	} else if err != nil {
		return err
	}
	ctx.ImageIndex = index

	// Make sure the previous frame is not using this image (i.e. its fence is being waited on)
	if fence := ctx.ImagesInFlight[index]; fence != nil && fence != current.InFlight {
		if err := fence.Wait(ctx, math.MaxUint64); err != nil {
			return err
		}
	}
	// Mark the image fence as in-use by this frame.
	ctx.ImagesInFlight[index] = current.InFlight

	// Reset the fence for use on the next frame
	if err := current.InFlight.Reset(ctx); err != nil {
		return err
	}

	extent := ctx.Swapchain.Extent
	frame.CopyScaled(current.Staging.Bytes(), int(extent.Width), int(extent.Height), ctx.Swapchain.BGRA)

	image := ctx.Swapchain.Images[index]
	cb := current.CommandBuffer
	if err := cb.Reset(); err != nil {
		return err
	}
	if err := cb.Begin(true); err != nil {
		return err
	}
	cb.TransitionImage(image,
		vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal,
		0, vk.AccessFlags(vk.AccessTransferWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit))
	cb.CopyBufferToImage(current.Staging, image, extent.Width, extent.Height)
	cb.TransitionImage(image,
		vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc,
		vk.AccessFlags(vk.AccessTransferWriteBit), 0,
		vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit))
	if err := cb.End(); err != nil {
		return err
	}

	// The copy must wait until the image is actually available.
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{current.ImageAvailable},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{current.QueueComplete},
	}
	if res := vk.QueueSubmit(ctx.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, current.InFlight.Handle); res != vk.Success {
		return fmt.Errorf("vkQueueSubmit failed with result: %s", VulkanResultString(res, true))
	}
	cb.UpdateSubmitted()

	stale, err := ctx.Swapchain.SwapchainPresent(ctx, ctx.Device.PresentQueue, current.QueueComplete, index)
	if err != nil {
		return err
	}
	if stale {
		// Picked up by the generation check on the next frame.
		ctx.FramebufferSizeGeneration++
	}
	vr.FrameNumber++
	return nil
}

func (vr *VulkanRenderer) recreateSwapchain() error {
	ctx := vr.context
	vr.recreatingSwapchain = true
	defer func() { vr.recreatingSwapchain = false }()

	if vr.cachedFramebufferWidth != 0 && vr.cachedFramebufferHeight != 0 {
		ctx.FramebufferWidth = vr.cachedFramebufferWidth
		ctx.FramebufferHeight = vr.cachedFramebufferHeight
	}
	if ctx.FramebufferWidth == 0 || ctx.FramebufferHeight == 0 {
		core.LogDebug("recreateSwapchain called when window is < 1 in a dimension. Booting.")
		return nil
	}

	// Wait for any operations to complete.
	vk.DeviceWaitIdle(ctx.Device.LogicalDevice)
	vr.destroyFrames()

	sc, err := ctx.Swapchain.SwapchainRecreate(ctx, ctx.FramebufferWidth, ctx.FramebufferHeight)
	if err == core.ErrSwapchainBooting {
		// Minimized, try again once the surface has a size.
		ctx.Swapchain = &VulkanSwapchain{MaxFramesInFlight: ctx.Swapchain.MaxFramesInFlight}
		return nil
	} else if err != nil {
		return err
	}
	ctx.Swapchain = sc

	if err := vr.createFrames(); err != nil {
		return err
	}

	// Sync the framebuffer size with the cached sizes.
	ctx.FramebufferSizeLastGeneration = ctx.FramebufferSizeGeneration
	vr.cachedFramebufferWidth = 0
	vr.cachedFramebufferHeight = 0
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
