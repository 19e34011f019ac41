package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// VulkanBuffer is a host visible, persistently mapped transfer source.
type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   uint64
	mapped unsafe.Pointer
}

func NewStagingBuffer(context *VulkanContext, size uint64) (*VulkanBuffer, error) {
	device := context.Device.LogicalDevice
	buffer := &VulkanBuffer{Size: size}

	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		SharingMode: vk.SharingModeExclusive,
	}
	if res := vk.CreateBuffer(device, &createInfo, context.Allocator, &buffer.Handle); res != vk.Success {
		return nil, fmt.Errorf("failed to create buffer: %s", VulkanResultString(res, false))
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, buffer.Handle, &requirements)
	requirements.Deref()

	flags := uint32(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	index := context.FindMemoryIndex(requirements.MemoryTypeBits, flags)
	if index < 0 {
		buffer.Destroy(context)
		return nil, fmt.Errorf("no host visible memory for a %d byte buffer", size)
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(index),
	}
	if res := vk.AllocateMemory(device, &allocateInfo, context.Allocator, &buffer.Memory); res != vk.Success {
		buffer.Destroy(context)
		return nil, fmt.Errorf("failed to allocate buffer memory: %s", VulkanResultString(res, false))
	}
	if res := vk.BindBufferMemory(device, buffer.Handle, buffer.Memory, 0); res != vk.Success {
		buffer.Destroy(context)
		return nil, fmt.Errorf("failed to bind buffer memory: %s", VulkanResultString(res, false))
	}
	if res := vk.MapMemory(device, buffer.Memory, 0, vk.DeviceSize(size), 0, &buffer.mapped); res != vk.Success {
		buffer.Destroy(context)
		return nil, fmt.Errorf("failed to map buffer memory: %s", VulkanResultString(res, false))
	}
	return buffer, nil
}

// Bytes exposes the mapped memory. Valid until Destroy.
func (b *VulkanBuffer) Bytes() []byte {
	if b.mapped == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.mapped), b.Size)
}

func (b *VulkanBuffer) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if b.mapped != nil {
		vk.UnmapMemory(device, b.Memory)
		b.mapped = nil
	}
	if b.Handle != nil {
		vk.DestroyBuffer(device, b.Handle, context.Allocator)
		b.Handle = nil
	}
	if b.Memory != nil {
		vk.FreeMemory(device, b.Memory, context.Allocator)
		b.Memory = nil
	}
}
