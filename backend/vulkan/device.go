// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/gogpu/vcl"
	"github.com/gogpu/vcl/gpucore"
)

// ErrDeviceClosed is returned by resource creation after Close.
var ErrDeviceClosed = errors.New("vulkan: device closed")

// Device implements gpucore.Device on a caller-owned VkDevice.
type Device struct {
	physical vk.PhysicalDevice
	device   vk.Device
	queue    vk.Queue
	pool     vk.CommandPool

	memory    vk.PhysicalDeviceMemoryProperties
	info      gpucore.AdapterInfo
	alignment int
	closed    bool

	bound    *Framebuffer
	pipeline gpucore.PipelineID
}

var _ gpucore.Device = (*Device)(nil)

// NewDevice wraps device. queue must belong to queueFamily, which must
// support transfer operations.
func NewDevice(physical vk.PhysicalDevice, device vk.Device, queue vk.Queue, queueFamily uint32) (*Device, error) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(physical, &props)
	props.Deref()
	props.Limits.Deref()

	d := &Device{
		physical:  physical,
		device:    device,
		queue:     queue,
		memory:    readMemoryProperties(physical),
		alignment: max(int(props.Limits.MinUniformBufferOffsetAlignment), 1),
		info: gpucore.AdapterInfo{
			Backend:  "vulkan",
			Name:     vk.ToString(props.DeviceName[:]),
			Vendor:   fmt.Sprintf("%#04x", props.VendorID),
			Version:  apiVersion(props.ApiVersion),
			Software: props.DeviceType == vk.PhysicalDeviceTypeCpu,
		},
	}

	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
		QueueFamilyIndex: queueFamily,
	}
	if err := vk.Error(vk.CreateCommandPool(device, &poolInfo, nil, &d.pool)); err != nil {
		return nil, fmt.Errorf("vulkan: create command pool: %w", err)
	}

	vcl.Logger().Info("vulkan: using device",
		"name", d.info.Name,
		"vendor", d.info.Vendor,
		"api", d.info.Version,
		"type", props.DeviceType)
	return d, nil
}

func readMemoryProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &props)
	props.Deref()
	for i := range props.MemoryTypes {
		props.MemoryTypes[i].Deref()
	}
	return props
}

// memoryType returns the first memory type allowed by typeBits that has
// all of flags.
func (d *Device) memoryType(typeBits uint32, flags vk.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < d.memory.MemoryTypeCount; i++ {
		if typeBits&(1<<i) != 0 && d.memory.MemoryTypes[i].PropertyFlags&flags == flags {
			return i, nil
		}
	}
	return 0, fmt.Errorf("vulkan: no memory type with flags %#x in %#b", flags, typeBits)
}

// Info describes the physical device.
func (d *Device) Info() gpucore.AdapterInfo { return d.info }

// ConstantBufferAlignment returns minUniformBufferOffsetAlignment.
func (d *Device) ConstantBufferAlignment() int { return d.alignment }

// Handles returns the wrapped Vulkan handles.
func (d *Device) Handles() (vk.PhysicalDevice, vk.Device, vk.Queue) {
	return d.physical, d.device, d.queue
}

// CreateConstantBuffer creates a uniform buffer in host-visible, coherent
// memory and maps it for its whole lifetime.
func (d *Device) CreateConstantBuffer(size int) (gpucore.Buffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if size <= 0 {
		return nil, fmt.Errorf("vulkan: invalid buffer size %d", size)
	}
	return newBuffer(d, size)
}

// CreateTexture creates a device-local image and a view of all its
// subresources.
func (d *Device) CreateTexture(desc gpucore.TextureDescription) (gpucore.Texture, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return newTexture(d, desc.Normalized())
}

// FenceSync submits an empty batch that signals a new fence once all
// previously submitted work has completed.
func (d *Device) FenceSync() (gpucore.Sync, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	var fence vk.Fence
	if err := vk.Error(vk.CreateFence(d.device, &info, nil, &fence)); err != nil {
		return nil, fmt.Errorf("vulkan: create fence: %w", err)
	}
	if err := vk.Error(vk.QueueSubmit(d.queue, 0, nil, fence)); err != nil {
		vk.DestroyFence(d.device, fence, nil)
		return nil, fmt.Errorf("vulkan: submit fence: %w", err)
	}
	return &Sync{device: d.device, fence: fence}, nil
}

// CreateFramebuffer creates a render pass compatible with the targets and
// a framebuffer over views of their first mip level and layer.
func (d *Device) CreateFramebuffer(colors []gpucore.Texture, depth gpucore.Texture) (gpucore.Framebuffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	return newFramebuffer(d, colors, depth)
}

func (d *Device) own(t gpucore.Texture) (*Texture, error) {
	vt, ok := t.(*Texture)
	if !ok || vt.dev != d {
		return nil, fmt.Errorf("%w: %T", gpucore.ErrForeignResource, t)
	}
	if vt.image == nil {
		return nil, gpucore.ErrDestroyed
	}
	return vt, nil
}

// BindPipeline records p for subsequent command recording.
func (d *Device) BindPipeline(p gpucore.PipelineID) { d.pipeline = p }

// Pipeline returns the last pipeline passed to BindPipeline.
func (d *Device) Pipeline() gpucore.PipelineID { return d.pipeline }

// Bound returns the framebuffer bound last, or nil.
func (d *Device) Bound() *Framebuffer { return d.bound }

// submitOnce records a one-time command buffer with record, submits it and
// waits for the queue to become idle.
func (d *Device) submitOnce(record func(cmd vk.CommandBuffer)) error {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	cmds := make([]vk.CommandBuffer, 1)
	if err := vk.Error(vk.AllocateCommandBuffers(d.device, &allocInfo, cmds)); err != nil {
		return fmt.Errorf("vulkan: allocate command buffer: %w", err)
	}
	defer vk.FreeCommandBuffers(d.device, d.pool, 1, cmds)

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(cmds[0], &beginInfo)); err != nil {
		return fmt.Errorf("vulkan: begin command buffer: %w", err)
	}
	record(cmds[0])
	if err := vk.Error(vk.EndCommandBuffer(cmds[0])); err != nil {
		return fmt.Errorf("vulkan: end command buffer: %w", err)
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    cmds,
	}
	if err := vk.Error(vk.QueueSubmit(d.queue, 1, []vk.SubmitInfo{submitInfo}, nil)); err != nil {
		return fmt.Errorf("vulkan: submit: %w", err)
	}
	if err := vk.Error(vk.QueueWaitIdle(d.queue)); err != nil {
		return fmt.Errorf("vulkan: wait idle: %w", err)
	}
	return nil
}

// Close waits for the device to become idle and destroys the command
// pool. The VkDevice itself belongs to the caller.
func (d *Device) Close() error {
	if d.closed {
		return ErrDeviceClosed
	}
	d.closed = true
	d.bound = nil
	err := vk.Error(vk.DeviceWaitIdle(d.device))
	vk.DestroyCommandPool(d.device, d.pool, nil)
	if err != nil {
		return fmt.Errorf("vulkan: wait idle: %w", err)
	}
	return nil
}
