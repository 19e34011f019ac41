package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/quadn/engine/core"
)

// VulkanFrame holds everything one frame in flight records into.
type VulkanFrame struct {
	CommandBuffer *VulkanCommandBuffer
	// Host visible copy source, sized to the swapchain extent.
	Staging *VulkanBuffer

	ImageAvailable vk.Semaphore
	QueueComplete  vk.Semaphore
	InFlight       *VulkanFence
}

type VulkanContext struct {
	// The framebuffer's current width.
	FramebufferWidth uint32
	// The framebuffer's current height.
	FramebufferHeight uint32
	// Current generation of framebuffer size. If it does not match FramebufferSizeLastGeneration,
	// the swapchain must be recreated.
	FramebufferSizeGeneration uint64
	// The generation of the framebuffer when it was last created.
	FramebufferSizeLastGeneration uint64

	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugMessenger vk.DebugReportCallback

	Device    *VulkanDevice
	Swapchain *VulkanSwapchain

	Frames []*VulkanFrame
	// Fences of the frames currently using each swapchain image. Not owned.
	ImagesInFlight []*VulkanFence

	ImageIndex   uint32
	CurrentFrame uint32
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter, propertyFlags uint32) int32 {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		// Check each memory type to see if its bit is set to 1.
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (uint32(memoryProperties.MemoryTypes[i].PropertyFlags)&propertyFlags) == propertyFlags {
			return int32(i)
		}
	}
	core.LogWarn("Unable to find suitable memory type!")
	return -1
}
